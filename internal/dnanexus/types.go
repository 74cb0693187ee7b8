package dnanexus

import (
	"fmt"
	"strings"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

// AccessLevel is a user's permission on a project.
type AccessLevel string

const (
	LevelNone       AccessLevel = "NONE"
	LevelView       AccessLevel = "VIEW"
	LevelUpload     AccessLevel = "UPLOAD"
	LevelContribute AccessLevel = "CONTRIBUTE"
	LevelAdminister AccessLevel = "ADMINISTER"
)

// InviteLevels are the levels a user can be invited at, in increasing privilege.
var InviteLevels = []AccessLevel{LevelView, LevelUpload, LevelContribute, LevelAdminister}

func (l AccessLevel) String() string {
	return string(l)
}

// Valid reports whether l is one of InviteLevels.
func (l AccessLevel) Valid() bool {
	for _, level := range InviteLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ParseAccessLevel accepts an invite level in any case.
func ParseAccessLevel(raw string) (AccessLevel, error) {
	level := AccessLevel(normalize.Upper(raw))
	if !level.Valid() {
		return "", fmt.Errorf("access level must be one of %s, got %q", levelNames(), raw)
	}
	return level, nil
}

func levelNames() string {
	names := make([]string, 0, len(InviteLevels))
	for _, level := range InviteLevels {
		names = append(names, string(level))
	}
	return strings.Join(names, ", ")
}

// ProjectRecord is one result of an org project listing. Level is the caller's
// current access on the project, or NONE.
type ProjectRecord struct {
	ID     string
	Level  AccessLevel
	Public bool
	// Name is only set when the listing was asked to describe projects.
	Name string
}

type ProjectDescription struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Created    int64             `json:"created"`
	Modified   int64             `json:"modified"`
	BillTo     string            `json:"billTo"`
	Level      AccessLevel       `json:"level"`
	Properties map[string]string `json:"properties"`
}

type InviteInput struct {
	Invitee   string
	Level     AccessLevel
	SendEmail bool
}

type InviteResult struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type UserDescribeOptions struct {
	PendingTransfers bool
}

type UserDescription struct {
	ID               string
	Handle           string
	First            string
	Last             string
	PendingTransfers []string
}

type FindProjectsOptions struct {
	// CreatedAfter is a time expression accepted by ParseTime.
	CreatedAfter string
	// Describe asks the listing to include project names.
	Describe bool
}
