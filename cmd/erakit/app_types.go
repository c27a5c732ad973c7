package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	eruntime "github.com/gosuda/erakit/runtime"
)

type vmStartedMsg struct {
	events <-chan tea.Msg
	cancel context.CancelFunc
}

type vmOutputMsg struct {
	out eruntime.Output
}

type vmDoneMsg struct {
	err error
}

type vmInputResp struct {
	value  string
	closed bool
}

type vmPromptMsg struct {
	req  eruntime.InputRequest
	resp chan vmInputResp
}

type pendingInput struct {
	req  eruntime.InputRequest
	resp chan vmInputResp
}
