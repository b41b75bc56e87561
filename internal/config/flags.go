// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// listValue is a comma separated flag.Value.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// parseFlags parses configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-redis redis URL
//	-c/-config json file path with configs
//	-session-sign-key session signing key
//	-session-encryption-key session encryption key
//	-session-codec session codec (jwt, securecookie)
//	-session-issuer session token issuer
//	-session-duration session duration (e.g., "8h")
//	-session-same-site cookie SameSite policy (none, lax, strict)
//	-login-path login path for interactive redirects
//	-elevated-roles comma separated roles bypassing the DNI check
//	-dni-sources comma separated DNI source order (route, query, body)
//	-allowed-origins comma separated CORS origins
//	-hsts-max-age Strict-Transport-Security max-age (e.g., "8760h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-metrics expose /metrics
//	-trusted-proxies comma separated proxy IPs or CIDRs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("biodigestor-api", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN, redisURL string
	var jsonConfigPath string
	var signKey, encryptionKey, codec, issuer, sameSite, loginPath string
	var sessionDuration, requestTimeout, hstsMaxAge time.Duration
	var elevatedRoles, dniSources, allowedOrigins, trustedProxies listValue
	var metricsEnabled bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisURL, "redis", "", "Redis URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&signKey, "session-sign-key", "", "Session signing key")
	fs.StringVar(&encryptionKey, "session-encryption-key", "", "Session encryption key")
	fs.StringVar(&codec, "session-codec", "", "Session codec (jwt, securecookie)")
	fs.StringVar(&issuer, "session-issuer", "", "Session token issuer")
	fs.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 8h)")
	fs.StringVar(&sameSite, "session-same-site", "", "Cookie SameSite policy (none, lax, strict)")
	fs.StringVar(&loginPath, "login-path", "", "Login path for interactive redirects")
	fs.Var(&elevatedRoles, "elevated-roles", "Roles bypassing the DNI ownership check")
	fs.Var(&dniSources, "dni-sources", "DNI source order (route, query, body)")
	fs.Var(&allowedOrigins, "allowed-origins", "CORS allowed origins")
	fs.DurationVar(&hstsMaxAge, "hsts-max-age", 0, "Strict-Transport-Security max-age")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.BoolVar(&metricsEnabled, "metrics", false, "Expose Prometheus metrics on /metrics")
	fs.Var(&trustedProxies, "trusted-proxies", "Reverse proxy IPs or CIDRs trusted for forwarded headers")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Session: Session{
			SignKey:       signKey,
			EncryptionKey: encryptionKey,
			Codec:         codec,
			Issuer:        issuer,
			Duration:      sessionDuration,
			SameSite:      sameSite,
			LoginPath:     loginPath,
			ElevatedRoles: elevatedRoles,
			DNISources:    dniSources,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Redis: Redis{URL: redisURL},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AllowedOrigins: allowedOrigins,
			HSTSMaxAge:     hstsMaxAge,
			MetricsEnabled: metricsEnabled,
			TrustedProxies: trustedProxies,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
