package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scrawl-games/scrawl/internal/cache"
	"github.com/scrawl-games/scrawl/internal/database"
	"github.com/scrawl-games/scrawl/internal/database/result/model"

	bolt "go.etcd.io/bbolt"
)

const prefix = "result"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

// DB stores finished game results, one bucket per room code, fronted by an
// ARC cache keyed by the serialized bucket name.
type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) bucket(roomCode string) []byte {
	return []byte(prefix + roomCode)
}

func (db *DB) serialBucket(roomCode string) string {
	return fmt.Sprintf("%s%s", prefix, roomCode)
}

func (db *DB) Add(result model.Result) error {
	defer db.cache.Delete(db.serialBucket(result.RoomCode))

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(db.bucket(result.RoomCode))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		bytes, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}

		return b.Put([]byte(result.ID), bytes)
	}); err != nil {
		return fmt.Errorf("db update: %w", err)
	}

	return nil
}

func (db *DB) FetchByCode(roomCode string) ([]model.Result, error) {
	if cached, ok := db.cache.Get(db.serialBucket(roomCode)); ok {
		if results, ok := cached.([]model.Result); ok {
			return results, nil
		}
	}

	var results []model.Result
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(db.bucket(roomCode))
		if b == nil {
			return ErrNotFound
		}

		return b.ForEach(func(k, v []byte) error {
			var result model.Result
			if err := json.Unmarshal(v, &result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
			results = append(results, result)
			return nil
		})
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db view: %w", err)
	}

	db.cache.Add(db.serialBucket(roomCode), results)

	return results, nil
}
