package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testBotToken = "123456:TEST-TOKEN"
	testChatID   = "-1001234567890"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool with the schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPoolFromConnString(ctx, connStr, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE orders, products"); err != nil {
		t.Logf("failed to clean tables: %v", err)
	}
}

// SentMessage is one sendMessage call received by the Telegram stub.
type SentMessage struct {
	Path      string `json:"-"`
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// TelegramStub is a fake Bot API that records sendMessage calls.
type TelegramStub struct {
	Server *httptest.Server

	mu       sync.Mutex
	messages []SentMessage
	status   int
	reply    string
}

// NewTelegramStub starts a stub answering every sendMessage with {"ok":true}.
func NewTelegramStub(t *testing.T) *TelegramStub {
	t.Helper()

	stub := &TelegramStub{status: http.StatusOK, reply: `{"ok":true,"result":{"message_id":1}}`}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg SentMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msg.Path = r.URL.Path

		stub.mu.Lock()
		stub.messages = append(stub.messages, msg)
		status, reply := stub.status, stub.reply
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(stub.Server.Close)

	return stub
}

// Fail makes subsequent calls answer with status and body.
func (s *TelegramStub) Fail(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.reply = body
}

// Messages returns a copy of the recorded calls.
func (s *TelegramStub) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.messages...)
}

// NotifierConfig points a Telegram notifier at the stub.
func (s *TelegramStub) NotifierConfig() config.NotifierConfig {
	return config.NotifierConfig{
		BotToken:   testBotToken,
		ChatID:     testChatID,
		APIBaseURL: strings.TrimRight(s.Server.URL, "/"),
		Timeout:    5 * time.Second,
	}
}
