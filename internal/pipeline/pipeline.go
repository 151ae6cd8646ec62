// Package pipeline drives the three-stage generation run: news search →
// article crawl → AI filtering. Stages are strictly sequential; a failure at
// any stage halts the run with a single error notification and leaves the
// handoff slot untouched.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"artigen/internal/api"
	"artigen/internal/model"
	"artigen/internal/notify"
	"artigen/internal/store"

	"github.com/google/uuid"
)

type Stage int

const (
	StageSearch Stage = iota
	StageCrawl
	StageFilter
)

func (s Stage) String() string {
	switch s {
	case StageSearch:
		return "Tìm kiếm tin tức"
	case StageCrawl:
		return "Thu thập nội dung"
	case StageFilter:
		return "Lọc và phân tích AI"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrBusy means a run is already in flight; the generate control must stay
// disabled until the current run settles.
var ErrBusy = errors.New("pipeline run already in progress")

// ValidationError reports missing required form input. No remote calls are
// made when validation fails.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Input is the validated aggregate of the setup form and the wizard's
// private data.
type Input struct {
	SourceType string // "internet" or "private"
	Query      string
	Title      string
	Context    string
	Website    string

	ContentType string
	Tone        string
	Language    string
	Bot         string
	Length      string
	Tags        []string

	Private model.PrivateData
}

func (in Input) validate() *ValidationError {
	var missing []string
	if strings.TrimSpace(in.Query) == "" {
		missing = append(missing, "từ khóa chính")
	}
	if strings.TrimSpace(in.ContentType) == "" {
		missing = append(missing, "loại bài viết")
	}
	if strings.TrimSpace(in.Bot) == "" {
		missing = append(missing, "AI model")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Runner executes generation runs and writes the payload handoff.
type Runner struct {
	client *api.Client
	st     store.Store
	notify notify.Notifier
	logger *slog.Logger

	// OnStage, when set, receives structured progress for the thinking
	// screen's stepper (done=false before the call, done=true after).
	OnStage func(stage Stage, done bool)

	busy atomic.Bool
}

func NewRunner(client *api.Client, st store.Store, n notify.Notifier, logger *slog.Logger) *Runner {
	return &Runner{client: client, st: st, notify: n, logger: logger}
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool { return r.busy.Load() }

func (r *Runner) stageStart(s Stage) {
	if r.OnStage != nil {
		r.OnStage(s, false)
	}
	r.notify.Notify(notify.Info, fmt.Sprintf("Đang %s...", strings.ToLower(s.String())))
}

func (r *Runner) stageDone(s Stage, detail string) {
	if r.OnStage != nil {
		r.OnStage(s, true)
	}
	r.notify.Notify(notify.Info, fmt.Sprintf("%s hoàn tất (%s)", s.String(), detail))
}

// Run validates in, executes the three stages sequentially, and on success
// writes the assembled payload to the handoff slot. Exactly one warning is
// emitted for validation failures and exactly one error notification for any
// stage failure. Concurrent calls beyond the first return ErrBusy.
func (r *Runner) Run(ctx context.Context, in Input) (*model.PipelinePayload, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.busy.Store(false)

	if verr := in.validate(); verr != nil {
		r.notify.Notify(notify.Warning, "Vui lòng điền: Từ khóa chính, Loại bài và AI Model!")
		return nil, verr
	}

	payload, err := r.run(ctx, in)
	if err != nil {
		r.logger.Error("Pipeline run failed", "error", err)
		r.notify.Notify(notify.Error, "Tạo dàn ý thất bại: "+err.Error())
		return nil, err
	}

	r.notify.Notify(notify.Success, "Đã tạo dàn ý thành công!")
	return payload, nil
}

func (r *Runner) run(ctx context.Context, in Input) (*model.PipelinePayload, error) {
	runID := uuid.NewString()
	r.logger.Info("Starting generation pipeline", "run_id", runID, "query", in.Query, "bot", in.Bot)

	r.stageStart(StageSearch)
	search, err := r.client.SearchNews(ctx, in.Query)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	if !search.Success {
		return nil, fmt.Errorf("news search rejected: %s", orUnknown(search.Message))
	}
	r.stageDone(StageSearch, fmt.Sprintf("%d kết quả", search.TotalResults))

	r.stageStart(StageCrawl)
	crawl, err := r.client.CrawlArticles(ctx, search.Results)
	if err != nil {
		return nil, fmt.Errorf("article crawl: %w", err)
	}
	if !crawl.Success {
		return nil, fmt.Errorf("article crawl rejected: %s", orUnknown(crawl.Message))
	}
	r.stageDone(StageCrawl, fmt.Sprintf("%d bài", crawl.ProcessedCount))

	r.stageStart(StageFilter)
	filtered, err := r.client.FilterNews(ctx, crawl.Articles, in.Query)
	if err != nil {
		return nil, fmt.Errorf("news filtering: %w", err)
	}
	if !filtered.Success {
		return nil, fmt.Errorf("news filtering rejected: %s", orUnknown(filtered.Message))
	}
	r.stageDone(StageFilter, fmt.Sprintf("%d bài chọn lọc", filtered.ArticleCount))

	payload := &model.PipelinePayload{
		RunID:      runID,
		UserQuery:  in.Query,
		SourceType: in.SourceType,
		Config: model.PayloadConfig{
			Title:   in.Title,
			Type:    in.ContentType,
			Tone:    in.Tone,
			Lang:    in.Language,
			Bot:     in.Bot,
			Length:  in.Length,
			Tags:    in.Tags,
			Context: in.Context,
			Website: in.Website,
		},
		PrivateData: in.Private,
		Results: model.StageResults{
			Search: search.Raw,
			Crawl:  crawl.Raw,
			Filter: filtered.Raw,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := r.st.PutHandoff(store.HandoffPipelinePayload, string(raw)); err != nil {
		return nil, fmt.Errorf("failed to store payload: %w", err)
	}
	r.logger.Info("Pipeline run complete", "run_id", runID)
	return payload, nil
}

func orUnknown(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "không rõ nguyên nhân"
	}
	return msg
}
