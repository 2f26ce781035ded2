package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// a short list of the passwords most often seen in breach dumps
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "admin123": {},
	"letmein1": {}, "trustno1": {}, "abc12345": {}, "passw0rd": {}, "superman": {},
	"11111111": {}, "00000000": {}, "monkey123": {}, "dragon123": {}, "starwars": {},
	"whatever": {}, "qwerty12": {}, "1q2w3e4r": {}, "asdfghjk": {}, "zaq12wsx": {},
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword returns every rule the password breaks.
func ValidatePassword(password string) []string {
	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}
