// Package session enforces the active-session policy on top of the
// store: starting, stopping and pausing tracked work at the task level.
package session

import (
	"fmt"
	"time"

	"github.com/mzaikin/daytrack/internal/logger"
	"github.com/mzaikin/daytrack/internal/model"
	"github.com/mzaikin/daytrack/internal/store"
)

// Controller translates task-level start/stop/pause commands into store
// mutations. With SingleActive set (the default), starting a task
// auto-stops whatever else was running, so at most one entry is open
// system-wide; without it, each task may run its own open entry.
type Controller struct {
	store        *store.Store
	singleActive bool

	// active maps taskID -> open entryID. Purely a convenience
	// projection rebuilt from the store; the store's open-entry rows
	// are ground truth and the map is reconciled before every decision.
	active map[int64]int64
}

// StartOutcome reports what Start actually did.
type StartOutcome struct {
	EntryID       int64 // the open entry now tracking the task
	AlreadyActive bool  // the task was already running; nothing changed
	Stopped       int   // entries auto-stopped by the single-active policy
}

// New builds a controller and primes its active-entry map from the
// store, picking up any entry left open by a previous run or a crash.
func New(st *store.Store, singleActive bool) (*Controller, error) {
	c := &Controller{
		store:        st,
		singleActive: singleActive,
		active:       make(map[int64]int64),
	}
	if err := c.reconcile(); err != nil {
		return nil, err
	}
	if len(c.active) > 0 {
		logger.Info("Recovered open entries", logger.F("count", len(c.active)))
	}
	return c, nil
}

// reconcile rebuilds the task->entry map from the store.
func (c *Controller) reconcile() error {
	open, err := c.store.ListOpenEntries()
	if err != nil {
		return fmt.Errorf("reconcile active entries: %w", err)
	}
	c.active = make(map[int64]int64, len(open))
	for _, e := range open {
		c.active[e.TaskID] = e.ID
	}
	return nil
}

// Start begins tracking a task. Starting an already-running task is a
// benign no-op reported through the outcome, not an error.
func (c *Controller) Start(taskID int64) (StartOutcome, error) {
	if err := c.reconcile(); err != nil {
		return StartOutcome{}, err
	}

	if entryID, ok := c.active[taskID]; ok {
		logger.Debug("Start ignored, task already active",
			logger.F("task", taskID), logger.F("entry", entryID))
		return StartOutcome{EntryID: entryID, AlreadyActive: true}, nil
	}

	var out StartOutcome
	if c.singleActive && len(c.active) > 0 {
		stopped, err := c.store.StopAllOpen(time.Now())
		if err != nil {
			return StartOutcome{}, fmt.Errorf("auto-stop before start: %w", err)
		}
		out.Stopped = stopped
	}

	entryID, err := c.store.StartEntry(taskID, time.Time{})
	if err != nil {
		return StartOutcome{}, err
	}
	out.EntryID = entryID

	if err := c.reconcile(); err != nil {
		return StartOutcome{}, err
	}
	logger.Info("Started entry",
		logger.F("task", taskID), logger.F("entry", entryID),
		logger.F("auto_stopped", out.Stopped))
	return out, nil
}

// Stop closes the task's open entry. Stopping a task that is not
// running fails with ErrNotFound.
func (c *Controller) Stop(taskID int64) error {
	if err := c.reconcile(); err != nil {
		return err
	}
	entryID, ok := c.active[taskID]
	if !ok {
		return fmt.Errorf("task %d has no active entry: %w", taskID, model.ErrNotFound)
	}
	return c.StopEntry(entryID)
}

// StopEntry closes one specific open entry.
func (c *Controller) StopEntry(entryID int64) error {
	if err := c.store.StopEntry(entryID, time.Now()); err != nil {
		return err
	}
	logger.Info("Stopped entry", logger.F("entry", entryID))
	return c.reconcile()
}

// PauseAll closes every open entry and returns how many were running.
// Zero is not an error; there was simply nothing to pause.
func (c *Controller) PauseAll() (int, error) {
	stopped, err := c.store.StopAllOpen(time.Now())
	if err != nil {
		return 0, err
	}
	if stopped > 0 {
		logger.Info("Paused all entries", logger.F("stopped", stopped))
	}
	return stopped, c.reconcile()
}

// ActiveEntries returns the currently open entries straight from the
// store, joined with their tasks.
func (c *Controller) ActiveEntries() ([]model.EntryRow, error) {
	return c.store.ListOpenEntries()
}

// IsActive reports whether the task has an open entry, per the store.
func (c *Controller) IsActive(taskID int64) bool {
	if err := c.reconcile(); err != nil {
		return false
	}
	_, ok := c.active[taskID]
	return ok
}
