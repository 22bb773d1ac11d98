package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
	"github.com/noah-isme/schedule-sync/pkg/response"
)

type stateStore interface {
	Snapshot() (state.RootState, uint64)
	Dispatch(e store.Event)
	Subscribe(fn store.Listener[state.RootState]) (cancel func())
}

type workflowWaiter interface {
	Wait(ctx context.Context) error
	InFlight() int
}

// Bridge turns HTTP calls into store events and answers with snapshots. Handlers in this
// package embed it.
type Bridge struct {
	store       stateStore
	saga        workflowWaiter
	validator   *validator.Validate
	waitTimeout time.Duration
	logger      *zap.Logger
}

// NewBridge constructs the shared bridge. waitTimeout bounds ?wait=true requests.
func NewBridge(s stateStore, saga workflowWaiter, validate *validator.Validate, waitTimeout time.Duration, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if waitTimeout <= 0 {
		waitTimeout = 15 * time.Second
	}
	return &Bridge{store: s, saga: saga, validator: validate, waitTimeout: waitTimeout, logger: logger}
}

// trigger dispatches events in order. Without ?wait=true it answers 202 with the snapshot as
// it stands; with it, the answer is deferred until no workflow runs.
func (b *Bridge) trigger(c *gin.Context, events ...store.Event) {
	for _, e := range events {
		b.store.Dispatch(e)
	}
	if !wantsWait(c) {
		snapshot, version := b.store.Snapshot()
		response.Accepted(c, snapshot, b.meta(c, version, false))
		return
	}
	if err := b.settle(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	snapshot, version := b.store.Snapshot()
	response.JSON(c, http.StatusOK, snapshot, b.meta(c, version, true))
}

func (b *Bridge) settle(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, b.waitTimeout)
	defer cancel()
	if err := b.saga.Wait(ctx); err != nil {
		b.logger.Warn("bridge wait expired", zap.Int("in_flight", b.saga.InFlight()), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
	}
	return nil
}

func (b *Bridge) meta(c *gin.Context, version uint64, settled bool) map[string]interface{} {
	c.Header("X-State-Version", strconv.FormatUint(version, 10))
	return map[string]interface{}{
		"version":  version,
		"settled":  settled,
		"inFlight": b.saga.InFlight(),
	}
}

// bindJSON decodes and validates the request body into dst.
func (b *Bridge) bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	if err := b.validator.Struct(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// bindQuery decodes and validates query parameters into dst.
func (b *Bridge) bindQuery(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	if err := b.validator.Struct(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func wantsWait(c *gin.Context) bool {
	wait, err := strconv.ParseBool(c.Query("wait"))
	return err == nil && wait
}

func requireParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return "", false
	}
	return value, true
}
