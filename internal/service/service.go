package service

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/rates"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
	"github.com/TheDucklet/FinancialTelegramBot/internal/trend"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SymbolLister перечисляет базовые активы, торгуемые к USDT
type SymbolLister interface {
	ListUSDTBaseAssets(ctx context.Context) ([]string, error)
}

// BotService сервисный слой для бизнес-логики
type BotService struct {
	storage       storages.Storage
	converter     *rates.Converter
	resolver      *providers.Resolver
	seriesBuilder *trend.SeriesBuilder
	lister        SymbolLister
	logger        *logrus.Logger
}

// NewBotService создает новый экземпляр сервиса
func NewBotService(
	storage storages.Storage,
	converter *rates.Converter,
	resolver *providers.Resolver,
	seriesBuilder *trend.SeriesBuilder,
	lister SymbolLister,
	logger *logrus.Logger,
) *BotService {
	return &BotService{
		storage:       storage,
		converter:     converter,
		resolver:      resolver,
		seriesBuilder: seriesBuilder,
		lister:        lister,
		logger:        logger,
	}
}

// RegisterUser регистрирует нового пользователя
func (s *BotService) RegisterUser(ctx context.Context, username, email, password string) error {
	// Проверяем, не существует ли уже пользователь
	existingUser, _ := s.storage.GetUserByUsername(ctx, username)
	if existingUser != nil {
		return fmt.Errorf("username already exists")
	}

	existingUser, _ = s.storage.GetUserByEmail(ctx, email)
	if existingUser != nil {
		return fmt.Errorf("email already exists")
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Создаем пользователя
	user := &storages.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("User registered successfully: %s", username)
	return nil
}

// AuthenticateUser аутентифицирует пользователя
func (s *BotService) AuthenticateUser(ctx context.Context, username, password string) (*storages.User, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	// Проверяем пароль
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnf("Failed authentication attempt for user: %s", username)
		return nil, fmt.Errorf("invalid username or password")
	}

	s.logger.Infof("User authenticated successfully: %s", username)
	return user, nil
}

// userSource возвращает источник котировок из настроек пользователя.
// При неизвестном значении в настройках используется Binance.
func (s *BotService) userSource(ctx context.Context, userID int64) providers.Source {
	settings, err := s.storage.GetSettings(ctx, userID)
	if err != nil {
		s.logger.Warnf("Failed to get settings for user %d: %v", userID, err)
		return providers.SourceBinance
	}

	return s.sourceFromSettings(settings)
}

// sourceFromSettings разбирает сохраненный источник котировок.
// При неизвестном значении используется Binance.
func (s *BotService) sourceFromSettings(settings *storages.UserSettings) providers.Source {
	src, err := providers.ParseSource(settings.DataSource)
	if err != nil {
		s.logger.Warnf("Unknown data source %q for user %d", settings.DataSource, settings.UserID)
		return providers.SourceBinance
	}

	return src
}
