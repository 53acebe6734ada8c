package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to its user, used by the session
	// middleware on protected routes.
	Authenticate(ctx context.Context, token string) (*entity.User, error)

	RequestOTP(ctx context.Context, req request.RequestOTPRequest) error
	VerifyOTP(ctx context.Context, req request.VerifyOTPRequest) error
}

type authService struct {
	repo *repository.Repository
	cfg  *utils.Config
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, cfg *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		cfg:  cfg,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req request.RegisterRequest) (*response.UserResponse, error) {
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         "customer",
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()))
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken().String(),
		ExpiresAt: now.Add(time.Duration(s.cfg.Session.ExpiryHours) * time.Hour),
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &response.LoginResponse{
		User:      response.UserToResponse(user),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.repo.Session.DeleteByToken(ctx, token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionExpired
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionExpired
	}
	return user, nil
}

func (s *authService) RequestOTP(ctx context.Context, req request.RequestOTPRequest) error {
	now := time.Now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		Contact:   req.Contact,
		Code:      utils.GenerateOTP(s.cfg.OTP.Length),
		Purpose:   entity.OTPPurpose(req.Purpose),
		ExpiresAt: now.Add(time.Duration(s.cfg.OTP.ExpiryMinutes) * time.Minute),
	}
	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return err
	}

	// Delivery goes through an external SMS/email provider. Until one is wired
	// the code only reaches the log in debug builds.
	s.log.Debug("OTP issued",
		zap.String("contact", req.Contact),
		zap.String("purpose", req.Purpose),
		zap.String("code", otp.Code),
	)
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req request.VerifyOTPRequest) error {
	otp, err := s.repo.OTP.FindValid(ctx, req.Contact, req.Code, entity.OTPPurpose(req.Purpose))
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrInvalidOTP
	}
	if err := s.repo.OTP.MarkUsed(ctx, otp.ID); err != nil {
		return err
	}

	if otp.Purpose == entity.OTPPurposeVerifyEmail {
		user, err := s.repo.User.FindByEmail(ctx, req.Contact)
		if err != nil {
			return err
		}
		if user != nil {
			if err := s.repo.User.MarkVerified(ctx, user.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
