package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// minúsculas e dígitos, seguro para compor hostnames e chaves de log
const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func ShortID(size int) (string, error) {
	return gonanoid.Generate(shortIDAlphabet, size)
}
