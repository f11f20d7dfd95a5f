package device

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	deviceerrors "github.com/gwenythashlie/gadc-attendance-system/internal/device/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=device_service.go -destination=mock/device_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (RegisterDeviceResponse, error)
	GetAll(ctx context.Context) ([]DeviceResponse, error)
	AuthenticateByAPIKey(ctx context.Context, apiKey string) (*Device, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("device.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("device.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterDeviceRequest) (RegisterDeviceResponse, error) {
	apiKey, err := generateAPIKey()
	if err != nil {
		return RegisterDeviceResponse{}, err
	}

	row := &Device{
		ID:         uuid.New(),
		DeviceID:   fmt.Sprintf("device_%d", time.Now().UnixMilli()),
		DeviceName: req.DeviceName,
		APIKey:     apiKey,
		Location:   req.Location,
		Status:     StatusActive,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("register device failed", zap.Error(err))
		return RegisterDeviceResponse{}, err
	}

	s.logger.Info("device registered",
		zap.String("device_id", row.DeviceID),
		zap.String("device_name", row.DeviceName),
	)

	return RegisterDeviceResponse{
		DeviceResponse: mapToResponse(*row),
		APIKey:         apiKey,
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]DeviceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]DeviceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// AuthenticateByAPIKey resolves an active device by its key and refreshes
// last_seen. The refresh is best-effort and never blocks the tap path.
func (s *service) AuthenticateByAPIKey(ctx context.Context, apiKey string) (*Device, error) {
	if apiKey == "" {
		return nil, deviceerrors.ErrInvalidAPIKey
	}

	d, err := s.repo.FindActiveByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, deviceerrors.ErrInvalidAPIKey
		}
		return nil, err
	}

	go func(id string) {
		touchCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.repo.TouchLastSeen(touchCtx, id, time.Now()); err != nil {
			s.logger.Warn("touch device last_seen failed", zap.String("device_id", id), zap.Error(err))
		}
	}(d.ID.String())

	return d, nil
}

// Authenticator adapts the service to the identity tuple the API-key
// middleware consumes, keeping the middleware package free of device types.
type Authenticator struct {
	svc Service
}

func NewAuthenticator(svc Service) Authenticator {
	return Authenticator{svc: svc}
}

func (a Authenticator) AuthenticateByAPIKey(ctx context.Context, apiKey string) (string, string, error) {
	d, err := a.svc.AuthenticateByAPIKey(ctx, apiKey)
	if err != nil {
		return "", "", err
	}
	return d.ID.String(), d.DeviceID, nil
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func mapToResponse(d Device) DeviceResponse {
	return DeviceResponse{
		ID:         d.ID.String(),
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		Location:   d.Location,
		Status:     d.Status,
		LastSeen:   d.LastSeen,
	}
}
