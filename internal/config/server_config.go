package config

import (
	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
}

type AuthServer struct {
	// Recipient is the receiver account signable payloads are addressed to
	// when the request omits one.
	Recipient string

	// CredentialEncryptionKey is the server-held secret the credential
	// cipher derives its AES key from.
	CredentialEncryptionKey string
}

type RedisServer struct {
	// Endpoint empty means the in-memory store is used instead.
	Endpoint  string
	KeyPrefix string
}

type LoggerServer struct {
	Level              string
	PrettyPrintConsole bool
}

type Server struct {
	Echo   EchoServer
	Auth   AuthServer
	Redis  RedisServer
	Logger LoggerServer
}

// DefaultServiceConfigFromEnv returns our server config as parsed from the
// environment.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
		},
		Auth: AuthServer{
			Recipient:               util.GetEnv("SERVER_AUTH_RECIPIENT", nearauth.DefaultRecipient),
			CredentialEncryptionKey: util.GetEnv("SERVER_AUTH_CREDENTIAL_ENCRYPTION_KEY", ""),
		},
		Redis: RedisServer{
			Endpoint:  util.GetEnv("SERVER_REDIS_ENDPOINT", ""),
			KeyPrefix: util.GetEnv("SERVER_REDIS_KEY_PREFIX", "crosspost"),
		},
		Logger: LoggerServer{
			Level:              util.GetEnv("SERVER_LOGGER_LEVEL", "info"),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
	}
}
