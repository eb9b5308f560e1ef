package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// FollowMirrorRedis نگهداری لیست شناسه‌ها در SETهای Redis برای نمایش آفلاین
type FollowMirrorRedis struct {
	Client *redis.Client
}

func NewFollowMirrorRedis(client *redis.Client) *FollowMirrorRedis {
	return &FollowMirrorRedis{Client: client}
}

func followingKey(userID string) string { return "following:" + userID }
func followersKey(userID string) string { return "followers:" + userID }

func (m *FollowMirrorRedis) ApplyFollow(ctx context.Context, followerID, targetUserID string) error {
	_, err := m.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, followingKey(followerID), targetUserID)
		pipe.SAdd(ctx, followersKey(targetUserID), followerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mirror follow: %w", err)
	}
	return nil
}

func (m *FollowMirrorRedis) ApplyUnfollow(ctx context.Context, followerID, targetUserID string) error {
	_, err := m.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, followingKey(followerID), targetUserID)
		pipe.SRem(ctx, followersKey(targetUserID), followerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mirror unfollow: %w", err)
	}
	return nil
}

// Replace بازنویسی کامل لیست‌های یک کاربر از روی داده‌ی اصلی
func (m *FollowMirrorRedis) Replace(ctx context.Context, userID string, followers, following []string) error {
	_, err := m.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, followersKey(userID), followingKey(userID))
		if len(followers) > 0 {
			pipe.SAdd(ctx, followersKey(userID), toMembers(followers)...)
		}
		if len(following) > 0 {
			pipe.SAdd(ctx, followingKey(userID), toMembers(following)...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mirror replace: %w", err)
	}
	return nil
}

func toMembers(ids []string) []interface{} {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return members
}
