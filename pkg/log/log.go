// Package log configura o logrus e carrega campos de log no contexto, para que
// requisições da API e jobs do worker compartilhem os mesmos identificadores
package log

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

type contextKey struct{}

const CorrelationIDField = "correlation_id"

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

// Setup configura o logrus global: texto em desenvolvimento, JSON nos demais ambientes
func Setup(level string) {
	if IsDevelopment() {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			PadLevelText:    true,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("log_level", level).Warn("LOG_LEVEL inválido, usando info")
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// WithFields devolve um contexto com os campos somados aos que já existiam.
// O mapa anterior nunca é alterado.
func WithFields(ctx context.Context, fields Fields) context.Context {
	current := fieldsFrom(ctx)
	merged := make(Fields, len(current)+len(fields))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, contextKey{}, merged)
}

// WithCorrelationID gera um uuid para a requisição e o grava no contexto
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return WithFields(ctx, Fields{CorrelationIDField: correlationID}), correlationID
}

func GetCorrelationID(ctx context.Context) string {
	id, _ := fieldsFrom(ctx)[CorrelationIDField].(string)
	return id
}

// ForContext cria uma entrada do logrus com todos os campos do contexto
func ForContext(ctx context.Context) *logrus.Entry {
	fields := fieldsFrom(ctx)
	if len(fields) == 0 {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithFields(fields)
}

func fieldsFrom(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(Fields)
	return fields
}
