package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimit 写接口限流中间件
// 每 IP 在 window 内最多 maxRequests 次请求，超过则返回 429
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	type entry struct {
		timestamps []time.Time
	}
	var (
		mu    sync.Mutex
		store = make(map[string]*entry)
	)

	prune := func(e *entry, cutoff time.Time) {
		kept := e.timestamps[:0]
		for _, t := range e.timestamps {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		e.timestamps = kept
	}

	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for ip, e := range store {
				prune(e, cutoff)
				if len(e.timestamps) == 0 {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		e, ok := store[ip]
		if !ok {
			e = &entry{}
			store[ip] = e
		}
		prune(e, now.Add(-window))
		if len(e.timestamps) >= maxRequests {
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests, please try again later",
			})
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()

		c.Next()
	}
}
