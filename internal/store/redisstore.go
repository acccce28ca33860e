package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"bingo-arena/internal/shared"
)

const (
	roomKeyPrefix   = "rooms:"
	roomIndexKey    = "rooms:index"
	queueKey        = "matchmaking_queue"
	publicRoomsKey  = "public_rooms"
	ticketKeyPrefix = "match_tickets:"

	ticketTTL = 5 * time.Minute
)

// RedisStore keeps rooms as JSON values with a sibling version counter.
// Conditional commits run under WATCH so a concurrent writer fails the
// transaction instead of clobbering it, and every committed change is
// published on the room's channel for watchers.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func roomKey(id string) string    { return roomKeyPrefix + id }
func roomVerKey(id string) string { return roomKeyPrefix + id + ":ver" }
func roomChan(id string) string   { return roomKeyPrefix + id + ":events" }
func ticketKey(id string) string  { return ticketKeyPrefix + id }
func ticketChan(id string) string { return ticketKeyPrefix + id + ":events" }

func (s *RedisStore) GetRoom(ctx context.Context, id string) (*shared.Room, uint64, error) {
	vals, err := s.client.MGet(ctx, roomKey(id), roomVerKey(id)).Result()
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	var r shared.Room
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, 0, err
	}
	var version uint64
	if vs, ok := vals[1].(string); ok {
		version, _ = strconv.ParseUint(vs, 10, 64)
	}
	return &r, version, nil
}

func (s *RedisStore) CreateRoom(ctx context.Context, r *shared.Room) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, roomKey(r.ID)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrRoomExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey(r.ID), payload, 0)
			pipe.Set(ctx, roomVerKey(r.ID), 1, 0)
			pipe.SAdd(ctx, roomIndexKey, r.ID)
			pipe.Publish(ctx, roomChan(r.ID), payload)
			return nil
		})
		return err
	}, roomKey(r.ID))
	if errors.Is(err, redis.TxFailedErr) {
		return ErrRoomExists
	}
	return err
}

func (s *RedisStore) CommitRoom(ctx context.Context, r *shared.Room, version uint64) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, roomVerKey(r.ID)).Result()
		if errors.Is(err, redis.Nil) {
			return ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		if cur != strconv.FormatUint(version, 10) {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey(r.ID), payload, 0)
			pipe.Incr(ctx, roomVerKey(r.ID))
			pipe.Publish(ctx, roomChan(r.ID), payload)
			return nil
		})
		return err
	}, roomVerKey(r.ID))
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) DeleteRoom(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, roomKey(id), roomVerKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	s.client.SRem(ctx, roomIndexKey, id)
	s.client.Publish(ctx, roomChan(id), "")
	return nil
}

func (s *RedisStore) ListRooms(ctx context.Context) ([]*shared.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*shared.Room, 0, len(ids))
	for _, id := range ids {
		r, _, err := s.GetRoom(ctx, id)
		if errors.Is(err, ErrRoomNotFound) {
			// index can lag a delete
			s.client.SRem(ctx, roomIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) WatchRoom(ctx context.Context, id string, fn WatchFunc) (func(), error) {
	sub := s.client.Subscribe(ctx, roomChan(id))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	go func() {
		for msg := range sub.Channel() {
			if msg.Payload == "" {
				fn(nil)
				continue
			}
			var r shared.Room
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				log.WithError(err).WithField("room", id).Warn("bad room event payload")
				continue
			}
			fn(&r)
		}
	}()
	return func() { sub.Close() }, nil
}

func (s *RedisStore) Enqueue(ctx context.Context, e *shared.QueueEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, queueKey, e.ID, payload).Err()
}

func (s *RedisStore) RemoveQueueEntry(ctx context.Context, playerID string) error {
	n, err := s.client.HDel(ctx, queueKey, playerID).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *RedisStore) ClaimMatchPair(ctx context.Context) (*shared.QueueEntry, *shared.QueueEntry, error) {
	var first, second *shared.QueueEntry
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raws, err := tx.HGetAll(ctx, queueKey).Result()
		if err != nil {
			return err
		}
		if len(raws) < 2 {
			return ErrNoPair
		}
		entries := make([]*shared.QueueEntry, 0, len(raws))
		for _, raw := range raws {
			var e shared.QueueEntry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				continue
			}
			entries = append(entries, &e)
		}
		if len(entries) < 2 {
			return ErrNoPair
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Timestamp != entries[j].Timestamp {
				return entries[i].Timestamp < entries[j].Timestamp
			}
			return entries[i].ID < entries[j].ID
		})
		first, second = entries[0], entries[1]
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, queueKey, first.ID, second.ID)
			return nil
		})
		return err
	}, queueKey)
	if errors.Is(err, redis.TxFailedErr) {
		// someone else claimed first; benign race loss
		return nil, nil, ErrNoPair
	}
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (s *RedisStore) PutMatchTicket(ctx context.Context, t *shared.MatchTicket) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ticketKey(t.PlayerID), payload, ticketTTL)
		pipe.Publish(ctx, ticketChan(t.PlayerID), payload)
		return nil
	})
	return err
}

func (s *RedisStore) GetMatchTicket(ctx context.Context, playerID string) (*shared.MatchTicket, error) {
	raw, err := s.client.Get(ctx, ticketKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	var t shared.MatchTicket
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RedisStore) DeleteMatchTicket(ctx context.Context, playerID string) error {
	return s.client.Del(ctx, ticketKey(playerID)).Err()
}

func (s *RedisStore) WatchMatchTicket(ctx context.Context, playerID string, fn func(*shared.MatchTicket)) (func(), error) {
	sub := s.client.Subscribe(ctx, ticketChan(playerID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	go func() {
		for msg := range sub.Channel() {
			var t shared.MatchTicket
			if err := json.Unmarshal([]byte(msg.Payload), &t); err != nil {
				log.WithError(err).WithField("player", playerID).Warn("bad ticket payload")
				continue
			}
			fn(&t)
		}
	}()
	// Deliver an already-present ticket so late watchers never miss a match.
	if t, err := s.GetMatchTicket(ctx, playerID); err == nil {
		go fn(t)
	}
	return func() { sub.Close() }, nil
}

func (s *RedisStore) PutPublicRoom(ctx context.Context, p *shared.PublicRoom) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, publicRoomsKey, p.RoomID, payload).Err()
}

func (s *RedisStore) RemovePublicRoom(ctx context.Context, roomID string) error {
	return s.client.HDel(ctx, publicRoomsKey, roomID).Err()
}

func (s *RedisStore) ListPublicRooms(ctx context.Context) ([]*shared.PublicRoom, error) {
	raws, err := s.client.HGetAll(ctx, publicRoomsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*shared.PublicRoom, 0, len(raws))
	for _, raw := range raws {
		var p shared.PublicRoom
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}
