package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/psds-microservice/helpdesk-cli/internal/session"
)

// Entry is one row of the local key/value storage.
type Entry struct {
	Key       string `gorm:"column:item_key;primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "local_storage" }

// KVStore keeps the session blob under session.StorageKey in sqlite.
type KVStore struct {
	session.Listeners
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(key string) (string, bool, error) {
	var e Entry
	err := s.db.First(&e, "item_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get %q: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *KVStore) Set(key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("storage set %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(key string) error {
	if err := s.db.Delete(&Entry{}, "item_key = ?", key).Error; err != nil {
		return fmt.Errorf("storage remove %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Session() (session.Session, bool) {
	v, ok, err := s.Get(session.StorageKey)
	if err != nil || !ok {
		return session.Session{}, false
	}
	return session.Decode([]byte(v))
}

func (s *KVStore) Save(sess session.Session) error {
	data, err := session.Encode(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.Set(session.StorageKey, string(data)); err != nil {
		return err
	}
	s.Notify(sess, true)
	return nil
}

func (s *KVStore) Clear() error {
	if err := s.Remove(session.StorageKey); err != nil {
		return err
	}
	s.Notify(session.Session{}, false)
	return nil
}
