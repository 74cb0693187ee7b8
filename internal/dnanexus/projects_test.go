package dnanexus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFindOrgProjectsPagesLazily(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/org-lab/findProjects" {
			http.NotFound(w, r)
			return
		}
		n := atomic.AddInt32(&calls, 1)
		body := decodeBody(t, r)
		created, _ := body["created"].(map[string]any)
		if got, _ := created["after"].(float64); int64(got) != now.UnixMilli()-86_400_000 {
			t.Errorf("created.after = %v", created["after"])
		}
		switch n {
		case 1:
			if _, ok := body["starting"]; ok {
				t.Errorf("first page must not send starting")
			}
			_, _ = io.WriteString(w, `{"results":[`+
				`{"id":"project-1","level":"NONE","public":false,"describe":{"name":"one"}},`+
				`{"id":"project-2","level":"VIEW","public":true,"describe":{"name":"two"}}`+
				`],"next":{"id":"project-2"}}`)
		default:
			starting, _ := body["starting"].(map[string]any)
			if starting["id"] != "project-2" {
				t.Errorf("starting = %v", body["starting"])
			}
			_, _ = io.WriteString(w, `{"results":[{"id":"project-3","level":"ADMINISTER","public":false}],"next":null}`)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Now = func() time.Time { return now }

	seq := c.FindOrgProjects(context.Background(), "org-lab", FindProjectsOptions{CreatedAfter: "-1d", Describe: true})
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("listing issued %d calls before iteration", got)
	}

	var records []ProjectRecord
	for rec, err := range seq {
		if err != nil {
			t.Fatalf("iteration error: %v", err)
		}
		records = append(records, rec)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != "project-1" || records[0].Level != LevelNone || records[0].Name != "one" {
		t.Fatalf("unexpected record[0]: %#v", records[0])
	}
	if !records[1].Public || records[1].Level != LevelView {
		t.Fatalf("unexpected record[1]: %#v", records[1])
	}
	if records[2].Name != "" || records[2].Level != LevelAdminister {
		t.Fatalf("unexpected record[2]: %#v", records[2])
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 page requests, got %d", got)
	}
}

func TestFindOrgProjectsStopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	var calls int32
	c, err := New("https://api.example.test", "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.HTTP.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(req, http.StatusOK, `{"results":[{"id":"project-1","level":"NONE"},{"id":"project-2","level":"NONE"}],"next":"project-2"}`), nil
	})

	for rec, err := range c.FindOrgProjects(context.Background(), "org-lab", FindProjectsOptions{}) {
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if rec.ID == "project-1" {
			break
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestFindOrgProjectsYieldsBadTimeExpression(t *testing.T) {
	t.Parallel()

	c, err := New("https://api.example.test", "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.HTTP.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		t.Errorf("no request expected, got %s", req.URL)
		return jsonResponse(req, http.StatusOK, `{}`), nil
	})

	var errs int
	for _, err := range c.FindOrgProjects(context.Background(), "org-lab", FindProjectsOptions{CreatedAfter: "yesterday-ish"}) {
		if err == nil {
			t.Fatal("expected error")
		}
		errs++
	}
	if errs != 1 {
		t.Fatalf("expected exactly one error, got %d", errs)
	}
}

func TestInviteSuppressesEmailByDefault(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project-9/invite" {
			http.NotFound(w, r)
			return
		}
		body := decodeBody(t, r)
		if body["invitee"] != "user-bob" || body["level"] != "CONTRIBUTE" {
			t.Errorf("unexpected body: %v", body)
		}
		if body["suppressEmailNotification"] != true {
			t.Errorf("suppressEmailNotification = %v", body["suppressEmailNotification"])
		}
		_, _ = io.WriteString(w, `{"id":"project-9","state":"PENDING"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := c.Invite(context.Background(), "project-9", InviteInput{Invitee: "user-bob", Level: LevelContribute})
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if res.ID != "project-9" || res.State != "PENDING" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestDescribeProjectRequestsFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		fields, _ := body["fields"].(map[string]any)
		if fields["created"] != true || fields["properties"] != true {
			t.Errorf("fields = %v", body["fields"])
		}
		_, _ = io.WriteString(w, `{"id":"project-1","name":"run 42","created":1500,"properties":{"queue":"scg"}}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	desc, err := c.DescribeProject(context.Background(), "project-1", "created", "properties")
	if err != nil {
		t.Fatalf("DescribeProject: %v", err)
	}
	if desc.Name != "run 42" || desc.Created != 1500 || desc.Properties["queue"] != "scg" {
		t.Fatalf("unexpected description: %#v", desc)
	}
	if _, err := c.DescribeProject(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty project id")
	}
}

func TestAcceptTransferSendsBillTo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project-5/acceptTransfer" {
			http.NotFound(w, r)
			return
		}
		if body := decodeBody(t, r); body["billTo"] != "org-lab" {
			t.Errorf("billTo = %v", body["billTo"])
		}
		_, _ = io.WriteString(w, `{"id":"project-5"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.AcceptTransfer(context.Background(), "project-5", "org-lab"); err != nil {
		t.Fatalf("AcceptTransfer: %v", err)
	}
}
