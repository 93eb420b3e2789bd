package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/govm-net/contract/types"
)

const defaultDBPath = "./contract.db"

// StorageEntry is one key/value pair of a contract.
type StorageEntry struct {
	gorm.Model
	Contract string `gorm:"column:contract_address;not null;uniqueIndex:idx_contract_key;size:42"`
	Key      []byte `gorm:"column:storage_key;type:blob;not null;uniqueIndex:idx_contract_key"`
	Value    []byte `gorm:"column:storage_value;type:blob;not null"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}

// ContractCode holds deployed wasm code.
type ContractCode struct {
	Address string `gorm:"column:address;primaryKey;size:42"`
	Code    []byte `gorm:"column:code;type:blob;not null"`
}

func (ContractCode) TableName() string {
	return "contract_codes"
}

// DBEvent represents an event in the database
type DBEvent struct {
	gorm.Model
	BlockHeight uint64 `gorm:"column:block_height;not null;index"`
	Contract    string `gorm:"column:contract_address;not null;index;size:42"`
	Topics      []byte `gorm:"column:topics;type:blob"` // concatenated 32-byte hashes
	Data        []byte `gorm:"column:event_data;type:blob"`
}

func (DBEvent) TableName() string {
	return "events"
}

func init() {
	if err := Register(SQLiteKind, func(params map[string]any) (Store, error) {
		path := defaultDBPath
		if p, ok := params["path"].(string); ok && p != "" {
			path = p
		}
		return OpenSQLite(path)
	}); err != nil {
		panic(err)
	}
}

// SQLite stores state in a sqlite database through gorm.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&StorageEntry{}, &ContractCode{}, &DBEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(contract types.Address, key []byte) ([]byte, error) {
	var entry StorageEntry
	result := s.db.Where("contract_address = ? AND storage_key = ?", contract.String(), key).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get storage: %w", result.Error)
	}
	return entry.Value, nil
}

func (s *SQLite) Set(contract types.Address, key, value []byte) error {
	if len(value) == 0 {
		result := s.db.Unscoped().
			Where("contract_address = ? AND storage_key = ?", contract.String(), key).
			Delete(&StorageEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove storage: %w", result.Error)
		}
		return nil
	}
	result := s.db.Where("contract_address = ? AND storage_key = ?", contract.String(), key).
		Assign(StorageEntry{Value: value}).
		FirstOrCreate(&StorageEntry{
			Contract: contract.String(),
			Key:      key,
			Value:    value,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update storage: %w", result.Error)
	}
	return nil
}

func (s *SQLite) SaveCode(contract types.Address, code []byte) error {
	if err := s.db.Save(&ContractCode{Address: contract.String(), Code: code}).Error; err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}
	return nil
}

func (s *SQLite) LoadCode(contract types.Address) ([]byte, error) {
	var c ContractCode
	result := s.db.Where("address = ?", contract.String()).First(&c)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load code: %w", result.Error)
	}
	return c.Code, nil
}

func (s *SQLite) AppendEvent(ev Event) error {
	topics := make([]byte, 0, len(ev.Topics)*32)
	for _, t := range ev.Topics {
		topics = append(topics, t[:]...)
	}
	row := &DBEvent{
		BlockHeight: ev.Block,
		Contract:    ev.Contract.String(),
		Topics:      topics,
		Data:        ev.Data,
	}
	if err := s.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

func (s *SQLite) Events(contract types.Address) ([]Event, error) {
	var rows []DBEvent
	q := s.db.Order("id")
	if contract != types.ZeroAddress {
		q = q.Where("contract_address = ?", contract.String())
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		ev := Event{
			Block:    r.BlockHeight,
			Contract: types.AddressFromString(r.Contract),
			Data:     r.Data,
		}
		for i := 0; i+32 <= len(r.Topics); i += 32 {
			ev.Topics = append(ev.Topics, types.BytesToHash(r.Topics[i:i+32]))
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
