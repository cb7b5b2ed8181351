package security

import (
	"fmt"
	"regexp"
	"strings"

	"ecommerce_automation/domain/entities"
)

const mask = "******"

var secretKeywords = []string{
	"password", "passwd", "secret", "token", "api_key", "apikey",
}

var secretPairPattern = regexp.MustCompile(`(?i)("?(?:` + strings.Join(secretKeywords, "|") + `)"?\s*[:=]\s*)("[^"]*"|'[^']*'|[^\s,}]+)`)

// MaskSecrets - hides values of password-like keys in free text such as step messages
func MaskSecrets(text string) string {
	return secretPairPattern.ReplaceAllString(text, "${1}"+mask)
}

// DescribeUser - renders a user for logs with the password hidden
func DescribeUser(u entities.User) string {
	password := ""
	if u.Password != "" {
		password = mask
	}
	return fmt.Sprintf("{username: %s, password: %s}", u.Username, password)
}
