package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todoctl/internal/service"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
)

// taskRecord is the tasks table.
type taskRecord struct {
	ID          int64  `gorm:"primarykey;autoIncrement"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"size:1000"`
	Status      string `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRecord) TableName() string { return "tasks" }

func (r taskRecord) toTask() service.Task {
	return service.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      service.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// userRecord is the users table.
type userRecord struct {
	ID             int64  `gorm:"primarykey;autoIncrement"`
	Username       string `gorm:"size:100;uniqueIndex;not null"`
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toUser() service.User {
	return service.User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		IsActive: r.IsActive,
	}
}

// OpenDB opens the SQLite database and migrates the schema.
// dsn is a file path, ":memory:", or a "sqlite:///path" URL.
func OpenDB(dsn string) (*gorm.DB, error) {
	path := strings.TrimPrefix(dsn, "sqlite:///")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&taskRecord{}, &userRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// TaskStore provides access to task storage.
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore creates a new task store.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// List returns all tasks in insertion order.
func (s *TaskStore) List(ctx context.Context) ([]service.Task, error) {
	var records []taskRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks := make([]service.Task, len(records))
	for i, r := range records {
		tasks[i] = r.toTask()
	}
	return tasks, nil
}

// Get returns one task.
func (s *TaskStore) Get(ctx context.Context, id int64) (service.Task, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return service.Task{}, err
	}
	return record.toTask(), nil
}

func (s *TaskStore) find(ctx context.Context, id int64) (*taskRecord, error) {
	var record taskRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &record, nil
}

// Create stores a task. An empty status becomes "To do".
func (s *TaskStore) Create(ctx context.Context, in service.TaskInput) (service.Task, error) {
	status := in.Status
	if status == "" {
		status = service.StatusTodo
	}
	record := taskRecord{
		Title:       in.Title,
		Description: in.Description,
		Status:      string(status),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return service.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return record.toTask(), nil
}

// TaskPatch carries the fields of an update; nil fields are left alone.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *service.Status
}

// Update applies patch to a task and refreshes its update time.
func (s *TaskStore) Update(ctx context.Context, id int64, patch TaskPatch) (service.Task, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return service.Task{}, err
	}
	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}
	if patch.Status != nil {
		record.Status = string(*patch.Status)
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return service.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return record.toTask(), nil
}

// Delete removes a task.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserStore provides access to accounts.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user store.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create stores an account with an already hashed password.
func (s *UserStore) Create(ctx context.Context, username, email, hashedPassword string) (service.User, error) {
	record := userRecord{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return service.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return record.toUser(), nil
}

// FindByUsername returns the account and its password hash.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (service.User, string, error) {
	return s.findBy(ctx, "username = ?", username)
}

// FindByEmail returns the account and its password hash.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (service.User, string, error) {
	return s.findBy(ctx, "email = ?", email)
}

func (s *UserStore) findBy(ctx context.Context, query string, arg string) (service.User, string, error) {
	var record userRecord
	if err := s.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.User{}, "", ErrNotFound
		}
		return service.User{}, "", fmt.Errorf("failed to find user: %w", err)
	}
	return record.toUser(), record.HashedPassword, nil
}
