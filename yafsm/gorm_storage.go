package yafsm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatState is one (chat, dispatcher key) → state name row.
type ChatState struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	ChatID    int64     `gorm:"primaryKey;autoIncrement:false"`
	Key       string    `gorm:"column:state_key;primaryKey;size:128"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatState) TableName() string {
	return "ya_chat_states"
}

// ChatStateData is the payload kept next to a ChatState.
type ChatStateData struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	ChatID    int64     `gorm:"primaryKey;autoIncrement:false"`
	Key       string    `gorm:"column:state_key;primaryKey;size:128"`
	Data      []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatStateData) TableName() string {
	return "ya_chat_state_data"
}

const (
	fieldNamespace = "namespace"
	fieldChatID    = "chat_id"
	fieldKey       = "state_key"
	fieldValue     = "value"
	fieldData      = "data"
	fieldUpdatedAt = "updated_at"
)

// GormStorage keeps states in SQL tables through gorm.
type GormStorage struct {
	poolDB    *gorm.DB
	namespace string
}

// NewGormStorage runs the migrations for [ChatState] and [ChatStateData].
//
// Example usage:
//
//	poolDB, _ := gorm.Open(sqlite.Open("states.db"), &gorm.Config{})
//	storage, err := yafsm.NewGormStorage(poolDB, "shop")
func NewGormStorage(poolDB *gorm.DB, namespace string) (*GormStorage, yaerrors.Error) {
	if err := poolDB.AutoMigrate(&ChatState{}, &ChatStateData{}); err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[FSM] failed to make auto migrate",
		)
	}

	return &GormStorage{
		poolDB:    poolDB,
		namespace: orDefault(namespace),
	}, nil
}

func (g *GormStorage) scope(ctx context.Context, model any, chatID int64) *gorm.DB {
	return g.poolDB.WithContext(ctx).
		Model(model).
		Where(fieldNamespace+" = ? AND "+fieldChatID+" = ?", g.namespace, chatID)
}

func (g *GormStorage) Set(
	ctx context.Context,
	chatID int64,
	key string,
	value string,
) yaerrors.Error {
	if err := g.poolDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: fieldNamespace}, {Name: fieldChatID}, {Name: fieldKey}},
			DoUpdates: clause.AssignmentColumns([]string{fieldValue, fieldUpdatedAt}),
		}).
		Create(&ChatState{
			Namespace: g.namespace,
			ChatID:    chatID,
			Key:       key,
			Value:     value,
		}).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to set state `%s` for chat %d", key, chatID),
		)
	}

	return nil
}

func (g *GormStorage) Get(
	ctx context.Context,
	chatID int64,
	key string,
) (string, bool, yaerrors.Error) {
	var row ChatState

	err := g.scope(ctx, &ChatState{}, chatID).
		Where(fieldKey+" = ?", key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to get state `%s` for chat %d", key, chatID),
		)
	}

	return row.Value, true, nil
}

func (g *GormStorage) GetAll(
	ctx context.Context,
	chatID int64,
) (map[string]string, yaerrors.Error) {
	var rows []ChatState

	if err := g.scope(ctx, &ChatState{}, chatID).Find(&rows).Error; err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to get states for chat %d", chatID),
		)
	}

	result := make(map[string]string, len(rows))

	for _, row := range rows {
		result[row.Key] = row.Value
	}

	return result, nil
}

func (g *GormStorage) Reset(
	ctx context.Context,
	chatID int64,
	keys ...string,
) yaerrors.Error {
	if len(keys) == 0 {
		return nil
	}

	return g.delete(ctx, chatID, keys)
}

func (g *GormStorage) ResetAll(
	ctx context.Context,
	chatID int64,
) yaerrors.Error {
	return g.delete(ctx, chatID, nil)
}

// delete removes state and data rows of a chat, limited to keys when non-nil.
func (g *GormStorage) delete(ctx context.Context, chatID int64, keys []string) yaerrors.Error {
	err := g.poolDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&ChatState{}, &ChatStateData{}} {
			query := tx.Where(fieldNamespace+" = ? AND "+fieldChatID+" = ?", g.namespace, chatID)

			if keys != nil {
				query = query.Where(fieldKey+" IN ?", keys)
			}

			if err := query.Delete(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to reset states for chat %d", chatID),
		)
	}

	return nil
}

func (g *GormStorage) SetData(
	ctx context.Context,
	chatID int64,
	key string,
	data []byte,
) yaerrors.Error {
	if err := g.poolDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: fieldNamespace}, {Name: fieldChatID}, {Name: fieldKey}},
			DoUpdates: clause.AssignmentColumns([]string{fieldData, fieldUpdatedAt}),
		}).
		Create(&ChatStateData{
			Namespace: g.namespace,
			ChatID:    chatID,
			Key:       key,
			Data:      data,
		}).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to set state data `%s` for chat %d", key, chatID),
		)
	}

	return nil
}

func (g *GormStorage) GetData(
	ctx context.Context,
	chatID int64,
	key string,
) ([]byte, bool, yaerrors.Error) {
	var row ChatStateData

	err := g.scope(ctx, &ChatStateData{}, chatID).
		Where(fieldKey+" = ?", key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[FSM] failed to get state data `%s` for chat %d", key, chatID),
		)
	}

	return row.Data, true, nil
}

// Close closes the underlying sql.DB.
func (g *GormStorage) Close() yaerrors.Error {
	sqlDB, err := g.poolDB.DB()
	if err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[FSM] failed to get sql database",
		)
	}

	if err := sqlDB.Close(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[FSM] failed to close sql database",
		)
	}

	return nil
}
