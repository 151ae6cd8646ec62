package tui

import (
	"artigen/internal/model"
	"artigen/internal/notify"
	"artigen/internal/pipeline"
)

type view int

const (
	viewSetup view = iota
	viewThinking
	viewOutline
)

func viewToString(v view) string {
	switch v {
	case viewThinking:
		return "thinking"
	case viewOutline:
		return "outline"
	default:
		return "setup"
	}
}

// setupFocus enumerates the focusable controls on the setup screen, in Tab
// order.
type setupFocus int

const (
	focusQuery setupFocus = iota
	focusTitle
	focusType
	focusTone
	focusLang
	focusBot
	focusLength
	focusTags
	focusContext
	focusWebsite
	focusSource
	focusGenerate
	focusCount // sentinel
)

type modalKind int

const (
	modalNone modalKind = iota
	modalFilePath
	modalFreeText
	modalProductLink
	modalRename
	modalKeyword
	modalConfirmDelete
)

type flashDoneMsg struct{ seq int }

type countdownTickMsg struct{ seq int }

type navigateOutlineMsg struct{ seq int }

type catalogMsg struct {
	catalog  model.Catalog
	degraded bool
}

type suggestMsg struct {
	query       string
	suggestions []string
	degraded    bool
}

type notifyMsg struct {
	level notify.Level
	text  string
}

type stageMsg struct {
	stage pipeline.Stage
	done  bool
}

type pipelineDoneMsg struct {
	payload *model.PipelinePayload
	err     error
}
