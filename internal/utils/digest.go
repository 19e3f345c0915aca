package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// StatementDigest generates an HMAC over the audit-relevant fields of a
// component sequence: id, category, member accounts and cash impact, in order.
// AI annotations are not part of the digest.
func StatementDigest(components []models.Component, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	for _, c := range components {
		fmt.Fprintf(h, "%s|%s|%s|%.2f\n", c.ID, c.Category, strings.Join(c.Accounts, ","), c.CashImpact)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyStatementDigest checks a digest produced by StatementDigest
func VerifyStatementDigest(components []models.Component, secret, digest string) bool {
	expected := StatementDigest(components, secret)
	return hmac.Equal([]byte(expected), []byte(digest))
}
