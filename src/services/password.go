package services

import cryptoRand "crypto/rand"

// tempPasswordLength matches the legacy 8-character recovery password format
const tempPasswordLength = 8

const tempPasswordCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateTempPassword returns a random alphanumeric temporary password from
// a cryptographically secure source
func GenerateTempPassword() string {
	result := make([]byte, tempPasswordLength)
	if _, err := cryptoRand.Read(result); err != nil {
		panic("failed to generate temporary password: " + err.Error())
	}
	for i := range result {
		result[i] = tempPasswordCharset[result[i]%byte(len(tempPasswordCharset))]
	}
	return string(result)
}
