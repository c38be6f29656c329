package creation

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/shortlink-client/internal/activity"
	"github.com/serroba/shortlink-client/internal/linkservice"
	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/state"
	"go.uber.org/zap"
)

// DefaultFailureMessage is shown when a failed submission carries no backend message.
const DefaultFailureMessage = "创建短链接失败"

var ErrSubmitting = errors.New("a submission is already in flight")

// Phase is the submission state of the form.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Field names an editable form field.
type Field int

const (
	FieldLongURL Field = iota
	FieldCustomCode
	FieldTimeout
)

// State is the create-link form as seen by the renderer.
type State struct {
	LongURL      string
	CustomCode   string
	TimeoutRaw   string
	Phase        Phase
	Result       *links.ShortLink
	ErrorMessage string
}

// Controller owns the create-link form.
type Controller struct {
	store   *state.Store[State]
	service linkservice.Service
	userID  links.UserID
	publish activity.Publishers
	logger  *zap.Logger
}

// NewController creates a controller submitting on behalf of userID.
func NewController(
	service linkservice.Service,
	userID links.UserID,
	publish activity.Publishers,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		store:   state.New(State{Phase: PhaseIdle}),
		service: service,
		userID:  userID,
		publish: publish,
		logger:  logger,
	}
}

// State returns the current form snapshot.
func (c *Controller) State() State {
	return c.store.Get()
}

// Subscribe registers l for every state change.
func (c *Controller) Subscribe(l state.Listener[State]) func() {
	return c.store.Subscribe(l)
}

// UpdateField sets one form field. Fields are frozen while a submission is in flight.
func (c *Controller) UpdateField(field Field, value string) error {
	var err error

	c.store.Update(func(s *State) {
		if s.Phase == PhaseSubmitting {
			err = ErrSubmitting

			return
		}

		switch field {
		case FieldLongURL:
			s.LongURL = value
		case FieldCustomCode:
			s.CustomCode = value
		case FieldTimeout:
			s.TimeoutRaw = value
		}
	})

	return err
}

// Submit sends the form to the backend once. A missing long URL is rejected with a
// *links.ValidationError before anything is sent. Backend and transport failures are not
// returned: they land in State.ErrorMessage with the fields left as they were.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	var (
		req      *links.CreateLinkRequest
		guardErr error
	)

	c.store.Update(func(s *State) {
		if s.Phase == PhaseSubmitting {
			guardErr = ErrSubmitting

			return
		}

		req = links.NewCreateLinkRequest(s.LongURL, s.CustomCode, s.TimeoutRaw, c.userID)
		if guardErr = req.Validate(); guardErr != nil {
			return
		}

		s.Phase = PhaseSubmitting
		s.Result = nil
		s.ErrorMessage = ""
	})

	if guardErr != nil {
		return c.store.Get(), guardErr
	}

	link, err := c.service.CreateShortURL(ctx, req)
	if err != nil {
		c.logger.Warn("create short url failed", zap.Error(err))

		return c.store.Update(func(s *State) {
			s.Phase = PhaseFailed
			s.ErrorMessage = links.MessageOf(err, DefaultFailureMessage)
		}), nil
	}

	snapshot := c.store.Update(func(s *State) {
		s.Phase = PhaseSucceeded
		s.Result = link
		s.LongURL = ""
		s.CustomCode = ""
		s.TimeoutRaw = ""
	})

	event := &activity.LinkCreatedEvent{
		ID:         int64(link.ID),
		Code:       string(link.ShortCode),
		LongURL:    link.LongURL,
		ShortURL:   link.ShortURL,
		UserID:     string(c.userID),
		CustomCode: req.CustomCode != nil,
		ExpiresAt:  link.ExpiresAt,
		OccurredAt: time.Now(),
	}

	if err = c.publish.LinkCreated(ctx, event); err != nil {
		c.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return snapshot, nil
}
