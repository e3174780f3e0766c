package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/pkg/mailer"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, templateID string, vars map[string]string) (*mailer.Content, error) {
	args := m.Called(ctx, templateID, vars)
	content, _ := args.Get(0).(*mailer.Content)
	return content, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestDispatch_EmployeeReminder(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}

	renderer.On("Render", mock.Anything, "emails/employee/timesheet-reminder", map[string]string{
		"to":            "a@x.com",
		"employeeName":  "John",
		"weekDate":      "2024-01-15",
		"timesheetLink": "http://x/t",
	}).Return(&mailer.Content{
		HTML: `<html><head><meta name="subject" content="Timesheet Reminder"></head><body>Hi John</body></html>`,
		Text: "Hi John",
	}, nil).Once()

	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.To == "a@x.com" &&
			e.Subject == "Timesheet Reminder" &&
			e.HTML == `<html><head></head><body>Hi John</body></html>` &&
			e.Text == "Hi John" &&
			e.Tags["reminder"] == "EMPLOYEE_REMINDER" &&
			e.Headers["X-Dispatch-ID"] != ""
	})).Return(nil).Once()

	d := dispatch.New(renderer, sender)
	res, err := d.Dispatch(context.Background(), 1, reminder.Payload{
		"to":            "a@x.com",
		"employeeName":  "John",
		"weekDate":      "2024-01-15",
		"timesheetLink": "http://x/t",
	})
	require.NoError(t, err)

	assert.Equal(t, dispatch.Delivered, res.Outcome)
	assert.Equal(t, reminder.EmployeeReminder, res.Type)
	assert.Equal(t, "emails/employee/timesheet-reminder", res.TemplateID)
	assert.Equal(t, "a@x.com", res.Recipient)
	assert.Equal(t, "Timesheet Reminder", res.Subject)
	assert.NotEqual(t, uuid.Nil, res.ID)

	renderer.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestDispatch_UnsupportedCode(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, -3, 9, 999} {
		renderer := &mockRenderer{}
		sender := &mockSender{}

		res, err := dispatch.New(renderer, sender).Dispatch(context.Background(), code, reminder.Payload{"to": "a@x.com"})
		require.Nil(t, res)
		require.ErrorIs(t, err, dispatch.ErrUnsupportedCode, "code %d", code)
		require.ErrorIs(t, err, reminder.ErrUnsupportedCode)
		assert.Equal(t, dispatch.KindUnsupportedCode, dispatch.KindOf(err))

		renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	}
}

func TestDispatch_InvalidPayload(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}

	_, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 4, reminder.Payload{
		"to":          "m@x.com",
		"managerName": map[string]any{"first": "Sarah"},
	})
	require.ErrorIs(t, err, dispatch.ErrInvalidPayload)
	assert.Equal(t, dispatch.KindInvalidPayload, dispatch.KindOf(err))

	var shapeErr *reminder.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, shapeErr.Error(), err.Error(), "shaping message is preserved verbatim")

	renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatch_SubjectPrecedence(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}

	renderer.On("Render", mock.Anything, "emails/manager/timesheet-escalation", mock.Anything).
		Return(&mailer.Content{HTML: `<meta name="subject" content="Meta Subject"><p>body</p>`}, nil)

	var sent *mailer.Email
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*mailer.Email) }).
		Return(nil)

	res, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 6, reminder.Payload{
		"to":      "m@x.com",
		"subject": "Payload Subject",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.Equal(t, "Payload Subject", res.Subject)
	assert.Equal(t, "Payload Subject", sent.Subject)
	assert.Equal(t, "<p>body</p>", sent.HTML)
	assert.NotContains(t, sent.HTML, "Meta Subject")
}

func TestDispatch_NoSubject(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}

	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Return(&mailer.Content{HTML: "<p>plain</p>"}, nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.Subject == "" && e.To == "e@x.com"
	})).Return(nil).Once()

	res, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 2, reminder.Payload{"to": "e@x.com"})
	require.NoError(t, err)
	assert.Equal(t, dispatch.Delivered, res.Outcome)
	assert.Empty(t, res.Subject)
	sender.AssertExpectations(t)
}

func TestDispatch_MissingRecipientSkips(t *testing.T) {
	t.Parallel()

	for name, payload := range map[string]reminder.Payload{
		"absent": {"employeeName": "John"},
		"blank":  {"to": "   "},
		"nil":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			renderer := &mockRenderer{}
			sender := &mockSender{}
			renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).
				Return(&mailer.Content{HTML: "<p>x</p>"}, nil)

			res, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 3, payload)
			require.NoError(t, err)
			assert.Equal(t, dispatch.Skipped, res.Outcome)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatch_NilContent(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	_, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 1, reminder.Payload{"to": "a@x.com"})
	require.ErrorIs(t, err, dispatch.ErrRenderFailure)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatch_RenderError(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(nil, mailer.ErrTemplateNotFound)

	_, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 7, reminder.Payload{"to": "a@x.com"})
	require.ErrorIs(t, err, dispatch.ErrRenderFailure)
	require.ErrorIs(t, err, mailer.ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "emails/admin/timesheet-admin-escalation")
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatch_DeliveryError(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}
	boom := errors.New("smtp: 554 rejected")
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(&mailer.Content{HTML: "<p>x</p>"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(boom)

	_, err := dispatch.New(renderer, sender).Dispatch(context.Background(), 8, reminder.Payload{"to": "hr@x.com"})
	require.ErrorIs(t, err, dispatch.ErrDeliveryFailure)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, dispatch.KindDeliveryFailure, dispatch.KindOf(err))
}

// stuckRenderer ignores its context and blocks until released.
type stuckRenderer struct {
	release chan struct{}
}

func (r *stuckRenderer) Render(context.Context, string, map[string]string) (*mailer.Content, error) {
	<-r.release
	return &mailer.Content{HTML: "<p>late</p>"}, nil
}

func TestDispatch_RenderTimeout(t *testing.T) {
	t.Parallel()

	renderer := &stuckRenderer{release: make(chan struct{})}
	defer close(renderer.release)
	sender := &mockSender{}

	d := dispatch.New(renderer, sender, dispatch.WithRenderTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := d.Dispatch(context.Background(), 1, reminder.Payload{"to": "a@x.com"})
	require.ErrorIs(t, err, dispatch.ErrRenderFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatch_DeliverTimeout(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(&mailer.Content{HTML: "<p>x</p>"}, nil)

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded)

	d := dispatch.New(renderer, sender, dispatch.WithDeliverTimeout(20*time.Millisecond))
	_, err := d.Dispatch(context.Background(), 5, reminder.Payload{"to": "m@x.com"})
	require.ErrorIs(t, err, dispatch.ErrDeliveryFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type panicRenderer struct{}

func (panicRenderer) Render(context.Context, string, map[string]string) (*mailer.Content, error) {
	panic("template engine exploded")
}

func TestDispatch_RendererPanic(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	_, err := dispatch.New(panicRenderer{}, sender).Dispatch(context.Background(), 1, reminder.Payload{"to": "a@x.com"})
	require.ErrorIs(t, err, dispatch.ErrRenderFailure)
	assert.Contains(t, err.Error(), "template engine exploded")
}

func TestDispatch_Concurrent(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	sender := &mockSender{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(&mailer.Content{HTML: "<p>x</p>"}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	d := dispatch.New(renderer, sender)

	var wg sync.WaitGroup
	for code := 1; code <= 8; code++ {
		wg.Add(1)
		go func(code int) {
			defer wg.Done()
			res, err := d.Dispatch(context.Background(), code, reminder.Payload{"to": "a@x.com"})
			assert.NoError(t, err)
			if assert.NotNil(t, res) {
				assert.Equal(t, code, res.Type.Code())
			}
		}(code)
	}
	wg.Wait()

	sender.AssertNumberOfCalls(t, "Send", 8)
}
