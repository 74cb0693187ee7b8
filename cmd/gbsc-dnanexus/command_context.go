package main

import (
	"sync"

	"github.com/spf13/cobra"
)

// structuredLogAnnotation marks commands whose output is structured logs. The
// others print plain results, and so do their errors.
const structuredLogAnnotation = "gbsc-dnanexus/structured-log"

type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	commandContextMu sync.RWMutex
	currentCommand   commandExecutionContext
)

func setCommandExecutionContext(ctx commandExecutionContext) {
	commandContextMu.Lock()
	defer commandContextMu.Unlock()
	currentCommand = ctx
}

func resetCommandExecutionContext() {
	setCommandExecutionContext(commandExecutionContext{})
}

func currentCommandExecutionContext() commandExecutionContext {
	commandContextMu.RLock()
	defer commandContextMu.RUnlock()
	return currentCommand
}

func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	return cmd.Annotations[structuredLogAnnotation] == "true"
}

func structuredLogging() map[string]string {
	return map[string]string{structuredLogAnnotation: "true"}
}
