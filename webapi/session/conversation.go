package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/mochapay/mocha/pkg/eventbus"
	sessionsvc "github.com/mochapay/mocha/pkg/service/session"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/webapi/common"
)

// keepAlive is how often an idle event stream sends a comment line and
// checks that its session has not expired.
var keepAlive = 15 * time.Second

// ListMessages returns a Fiber handler reading the transcript.
// @Summary List chat messages
// @Description Messages after the given message id, with the input hints of the current step
// @Tags chat
// @Produce json
// @Param id path string true "Session ID"
// @Param since query string false "Last message id the client has"
// @Success 200 {object} common.Response{data=sessionsvc.ChatView}
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/messages [get]
func ListMessages(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Chat(c.Context(), c.Params("id"), c.Query("since"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to read messages", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Messages fetched successfully", view)
	}
}

// SendMessage returns a Fiber handler posting a chat input.
// @Summary Send a chat message
// @Description Records the input. Bot replies follow after a typing delay on the event stream.
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body MessageRequest true "Message"
// @Success 200 {object} common.Response{data=sessionsvc.ChatView}
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/sessions/{id}/messages [post]
func SendMessage(svc *sessionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[MessageRequest](c)
		if input == nil {
			return err // error response already written
		}
		view, err := svc.SendMessage(c.Context(), c.Params("id"), input.Text)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to send message", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Message sent", view)
	}
}

// Events returns a Fiber handler streaming session events as Server-Sent
// Events. The stream opens with a session.updated snapshot and ends after
// session.deleted.
// @Summary Stream session events
// @Tags chat
// @Produce text/event-stream
// @Param id path string true "Session ID"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} common.ProblemDetails
// @Router /api/sessions/{id}/events [get]
func Events(svc *sessionsvc.Service, bus eventbus.Bus, logger *slog.Logger) fiber.Handler {
	log := logger.With("handler", "session_events")
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))
		sub, unsubscribe := bus.Subscribe(id)
		sess, err := svc.Get(c.Context(), id)
		if err != nil {
			unsubscribe()
			return common.ProblemDetailsJSON(c, "Session not found", err)
		}
		snapshot := eventbus.Event{
			Type:      eventbus.SessionUpdated,
			SessionID: id,
			Version:   sess.Version,
			At:        sess.UpdatedAt,
			Data:      sess,
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		log.Debug("📡 event stream opened", "session_id", id)

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer unsubscribe()
			if err := writeEvent(w, snapshot); err != nil {
				return
			}
			ticker := time.NewTicker(keepAlive)
			defer ticker.Stop()
			for {
				select {
				case e, ok := <-sub.C():
					if !ok {
						return
					}
					if err := writeEvent(w, e); err != nil {
						log.Debug("event stream closed by client", "session_id", id, "error", err)
						return
					}
					if e.Type == eventbus.SessionDeleted {
						return
					}
				case <-ticker.C:
					// Expired sessions never publish session.deleted.
					if _, err := svc.Get(context.Background(), id); errors.Is(err, store.ErrNotFound) {
						log.Debug("📡 event stream closed for expired session", "session_id", id)
						_ = writeEvent(w, eventbus.Event{
							Type:      eventbus.SessionDeleted,
							SessionID: id,
							Version:   sess.Version,
							At:        time.Now(),
						})
						return
					}
					if _, err := w.WriteString(": ping\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, e eventbus.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", e.Version, e.Type, data); err != nil {
		return err
	}
	return w.Flush()
}
