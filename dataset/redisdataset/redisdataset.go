/*
Package redisdataset provides an implementation of dataset.Dataset that
reads records from hashes on a Redis database.

Every hash whose key starts with the dataset's prefix followed by ':' is
one record, with the hash fields as the record's fields. Hash values
parseable as numbers are exposed as float64, any other value as a
string, and an empty value marks the field as missing.
*/
package redisdataset

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/redis.v5"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/predicate"
)

type redisDataset struct {
	rc     *redis.Client
	prefix string
}

/*
New takes a redis client and a key prefix and returns a dataset.Dataset
with the redis DB as backend.
*/
func New(rc *redis.Client, prefix string) dataset.Dataset {
	return &redisDataset{rc, prefix}
}

func (rds *redisDataset) Records(ctx context.Context) ([]predicate.Record, error) {
	keys, err := rds.recordKeys(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]predicate.Record, 0, len(keys))
	for _, key := range keys {
		fields, err := rds.rc.HGetAll(key).Result()
		if err != nil {
			return nil, fmt.Errorf("retrieving record %q from redis: %v", key, err)
		}
		values := make(map[string]interface{}, len(fields))
		for field, value := range fields {
			if value == "" {
				continue
			}
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				values[field] = f
				continue
			}
			values[field] = value
		}
		records = append(records, dataset.NewRecord(values))
	}
	return records, nil
}

func (rds *redisDataset) Count(ctx context.Context) (int, error) {
	keys, err := rds.recordKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (rds *redisDataset) Close(ctx context.Context) error {
	return rds.rc.Close()
}

func (rds *redisDataset) recordKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, next, err := rds.rc.Scan(cursor, fmt.Sprintf("%s:*", rds.prefix), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning record keys on redis: %v", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
