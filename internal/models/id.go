package models

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// GenID generates a prefixed sortable-ish ID: "<prefix>_<millis base36>_<hex>".
func GenID(prefix string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "_" + hex.EncodeToString(buf)
}
