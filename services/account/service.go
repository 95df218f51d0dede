package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountRepo "pilateshub/database/repository/account"
	"pilateshub/models"
	"pilateshub/services/payment"
	"pilateshub/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = accountRepo.ErrEmailTaken
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotInstructor      = errors.New("only instructors can do this")
)

type AccountService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	StartPayoutOnboarding(ctx context.Context, accountID string) (string, error)
	AddCertification(ctx context.Context, accountID, url string) error
}

type DefaultAccountService struct {
	Repo       accountRepo.AccountRepository
	Payouts    payment.PayoutOnboarder
	Logger     *zap.Logger
	TokenTTL   time.Duration
	Country    string
	BcryptCost int
	Now        func() time.Time
}

func NewDefaultAccountService(repo accountRepo.AccountRepository, payouts payment.PayoutOnboarder, logger *zap.Logger, tokenTTL time.Duration) *DefaultAccountService {
	return &DefaultAccountService{
		Repo:       repo,
		Payouts:    payouts,
		Logger:     logger,
		TokenTTL:   tokenTTL,
		Country:    "AU",
		BcryptCost: bcrypt.DefaultCost,
		Now:        time.Now,
	}
}

func (s *DefaultAccountService) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.Now()
	acct := models.Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, acct); err != nil {
		if errors.Is(err, accountRepo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.Logger.Info("account registered", zap.String("accountID", acct.ID), zap.String("role", string(acct.Role)))
	return s.issue(acct)
}

func (s *DefaultAccountService) Authenticate(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error) {
	acct, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)); err != nil {
		s.Logger.Debug("password mismatch", zap.String("accountID", acct.ID))
		return nil, ErrInvalidCredentials
	}
	return s.issue(*acct)
}

func (s *DefaultAccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	acct, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return acct, nil
}

// StartPayoutOnboarding returns a hosted onboarding link for an instructor's
// connected account, creating the account on first use.
func (s *DefaultAccountService) StartPayoutOnboarding(ctx context.Context, accountID string) (string, error) {
	acct, err := s.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if acct.Role != models.RoleInstructor {
		return "", ErrNotInstructor
	}

	connectedID := acct.StripeAccountID
	if connectedID == "" {
		connectedID, err = s.Payouts.CreateConnectedAccount(ctx, acct.Email, s.Country)
		if err != nil {
			return "", err
		}
		if err := s.Repo.SetStripeAccount(ctx, acct.ID, connectedID); err != nil {
			return "", fmt.Errorf("failed to save connected account: %w", err)
		}
		s.Logger.Info("connected account created",
			zap.String("accountID", acct.ID),
			zap.String("stripeAccountID", connectedID))
	}
	return s.Payouts.OnboardingLink(ctx, connectedID)
}

func (s *DefaultAccountService) AddCertification(ctx context.Context, accountID, url string) error {
	acct, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Role != models.RoleInstructor {
		return ErrNotInstructor
	}
	return s.Repo.AddCertification(ctx, accountID, url)
}

func (s *DefaultAccountService) issue(acct models.Account) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(acct.ID, acct.Email, acct.Role, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, Account: acct}, nil
}
