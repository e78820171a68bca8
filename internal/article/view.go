package article

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/utils"
)

// State of a view's resolution
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

var (
	// ErrSuperseded means a later navigation replaced the one that was running
	ErrSuperseded = errors.New("navigation superseded")
	// ErrNotReady means the view has no article body to ask about yet
	ErrNotReady = errors.New("article is not ready")
	// ErrQuestionInFlight means an earlier question is still being answered
	ErrQuestionInFlight = errors.New("a question is already being answered")
	// ErrEmptyQuestion is returned for blank questions
	ErrEmptyQuestion = errors.New("question is empty")
)

// Snapshot is a copy of a view's state. Article is set as soon as the
// metadata is known, possibly while State is still loading.
type Snapshot struct {
	State          State               `json:"state"`
	Slug           string              `json:"slug"`
	Article        *models.ContentItem `json:"article,omitempty"`
	BodyDegraded   bool                `json:"body_degraded,omitempty"`
	Answer         string              `json:"answer,omitempty"`
	AnswerDegraded bool                `json:"answer_degraded,omitempty"`
	Asking         bool                `json:"asking"`
	Error          string              `json:"error,omitempty"`
}

// View holds one reader's article state. Every navigation gets a sequence
// number and results carrying an older number are dropped, so the latest
// navigation always wins.
type View struct {
	resolver *Resolver

	mu       sync.Mutex
	seq      uint64
	snap     Snapshot
	lastSeen time.Time
}

// NewView creates an idle view
func NewView(resolver *Resolver) *View {
	return &View{resolver: resolver, snap: Snapshot{State: StateIdle}, lastSeen: time.Now()}
}

// Snapshot returns a copy of the current state
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copyLocked()
}

func (v *View) copyLocked() Snapshot {
	s := v.snap
	if s.Article != nil {
		item := *s.Article
		s.Article = &item
	}
	return s
}

// Navigate resolves slug and returns the resulting snapshot. Metadata is
// published before the body is requested. If another navigation starts
// before this one finishes, ErrSuperseded is returned along with the newer
// state.
func (v *View) Navigate(ctx context.Context, slug string, region models.Region) (Snapshot, error) {
	v.mu.Lock()
	v.seq++
	token := v.seq
	v.snap = Snapshot{State: StateLoading, Slug: slug}
	v.mu.Unlock()

	item, err := v.resolver.ResolveMetadata(ctx, slug, region)

	v.mu.Lock()
	if v.seq != token {
		defer v.mu.Unlock()
		return v.copyLocked(), ErrSuperseded
	}
	if err != nil {
		v.snap.State = StateFailed
		v.snap.Error = FailureMessage
		snap := v.copyLocked()
		v.mu.Unlock()

		log := logger.With("article")
		log.Error().Err(err).Str("slug", slug).Msg("Article resolution failed")
		return snap, err
	}
	v.snap.Slug = item.Slug
	v.snap.Article = &item
	v.mu.Unlock()

	body, bodyErr := v.resolver.ResolveBody(ctx, item, region)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq != token {
		return v.copyLocked(), ErrSuperseded
	}
	v.snap.Article.Content = body
	v.snap.BodyDegraded = bodyErr != nil
	v.snap.State = StateReady
	return v.copyLocked(), nil
}

// Ask runs the Q&A sub-flow against the current article. Only one question
// may be outstanding; the newest answer replaces the previous one. slug,
// when not empty, must match the article on display.
func (v *View) Ask(ctx context.Context, slug, question string, region models.Region) (Snapshot, error) {
	question = strings.TrimSpace(question)

	v.mu.Lock()
	if question == "" {
		v.mu.Unlock()
		return Snapshot{}, ErrEmptyQuestion
	}
	if err := v.askableLocked(slug); err != nil {
		defer v.mu.Unlock()
		return v.copyLocked(), err
	}
	v.snap.Asking = true
	token := v.seq
	body := v.snap.Article.Content
	v.mu.Unlock()

	answer, err := v.resolver.gen.AnswerQuestion(ctx, question, body, region)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq != token {
		return v.copyLocked(), ErrSuperseded
	}
	v.snap.Asking = false
	v.snap.Answer = answer
	v.snap.AnswerDegraded = err != nil
	return v.copyLocked(), nil
}

// CanAsk reports whether Ask would currently reach the generator for slug.
// It returns ErrNotReady or ErrQuestionInFlight otherwise.
func (v *View) CanAsk(slug string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copyLocked(), v.askableLocked(slug)
}

func (v *View) askableLocked(slug string) error {
	if v.snap.State != StateReady || v.snap.Article == nil || v.snap.Article.Content == "" ||
		!v.showing(slug) {
		return ErrNotReady
	}
	if v.snap.Asking {
		return ErrQuestionInFlight
	}
	return nil
}

// showing reports whether slug names the article on display, either as
// given or in its normalised form. An empty slug matches anything.
func (v *View) showing(slug string) bool {
	slug = strings.TrimSpace(slug)
	return slug == "" || slug == v.snap.Slug || utils.Slugify(slug) == v.snap.Slug
}

func (v *View) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}
