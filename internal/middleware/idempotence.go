package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	idempotenceHeader  = "X-Idempotence"
	idempotenceTTL     = 60 * time.Second
	idempotencePrefix  = "blog:idempotence:"
	idempotencePending = "0"
	idempotenceDone    = "1"
)

// Idempotence rejects an identical POST or PUT while the first one is in
// flight or for a minute after it succeeded. Identity is the X-Idempotence
// header, or a hash of method, URL, body, user agent, IP and token.
func Idempotence(kv KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		if kv == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut) {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("%s%s", idempotencePrefix, key)
		ctx := c.Request.Context()

		val, err := kv.Get(ctx, redisKey)
		if err != nil {
			c.Next()
			return
		}
		if val != nil {
			msg := "The same request can only be sent once within 60 seconds"
			if string(val) == idempotencePending {
				msg = "The same request is already being processed"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": msg,
			})
			return
		}

		if err := kv.Set(ctx, redisKey, []byte(idempotencePending), idempotenceTTL); err != nil {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = kv.Set(ctx, redisKey, []byte(idempotenceDone), idempotenceTTL)
		} else {
			_ = kv.Del(ctx, redisKey)
		}
	}
}

func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	// Multipart uploads are large and carry random boundaries.
	if c.ContentType() == "multipart/form-data" {
		return "", nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	ua := c.Request.UserAgent()
	ip := c.ClientIP()
	token := extractToken(c)

	if len(body) == 0 && ua == "" && ip == "" && token == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + ua + "|" + ip + "|" + token
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
