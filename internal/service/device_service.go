package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/psds-microservice/helpdesk-cli/internal/apiclient"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

type DeviceServicer interface {
	Assigned(ctx context.Context, userID string) ([]model.AssignedDevice, error)
}

type DeviceService struct {
	api apiclient.Requester
}

func NewDeviceService(api apiclient.Requester) *DeviceService {
	return &DeviceService{api: api}
}

func (s *DeviceService) Assigned(ctx context.Context, userID string) ([]model.AssignedDevice, error) {
	var resp struct {
		AssignedDevices []model.AssignedDevice `json:"assignedDevices"`
	}
	path := "/assignedProduct/getUserAssignedDevices/" + url.PathEscape(userID)
	if err := s.api.Request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("assigned devices for %s: %w", userID, err)
	}
	return resp.AssignedDevices, nil
}
