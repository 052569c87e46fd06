package view

import (
	"context"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

// AssignedDevices lists what the inventory service has assigned to the
// logged-in user. Read only.
type AssignedDevices struct {
	page
	devices []model.AssignedDevice
}

func NewAssignedDevices(ctx context.Context, d Deps) *AssignedDevices {
	a := &AssignedDevices{}
	a.init(ctx, d)
	return a
}

func (a *AssignedDevices) Load() error {
	s, ok := a.Sessions.Session()
	if !ok || s.UserID == "" {
		a.Notifier.Error(titleError, textNotLoggedIn)
		return errs.ErrNotLoggedIn
	}

	ctx, done, err := a.begin()
	if err != nil {
		return err
	}
	defer done()

	items, err := a.DeviceAPI.Assigned(ctx, s.UserID)
	if err != nil {
		return a.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	a.mu.Lock()
	a.devices = items
	a.mu.Unlock()
	return nil
}

func (a *AssignedDevices) Devices() []model.AssignedDevice {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.AssignedDevice(nil), a.devices...)
}
