// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Session struct {
		CookieName    string   `json:"cookie_name"`
		SignKey       string   `json:"sign_key"`
		EncryptionKey string   `json:"encryption_key"`
		Codec         string   `json:"codec"`
		Issuer        string   `json:"issuer"`
		Duration      Duration `json:"duration"`
		SameSite      string   `json:"same_site"`
		LoginPath     string   `json:"login_path"`
		ElevatedRoles []string `json:"elevated_roles"`
		DNISources    []string `json:"dni_sources"`
	} `json:"session,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL string `json:"url"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
		HSTSMaxAge     Duration `json:"hsts_max_age"`
		MetricsEnabled bool     `json:"metrics_enabled"`
		TrustedProxies []string `json:"trusted_proxies"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Session: Session{
			CookieName:    jsonCfg.Session.CookieName,
			SignKey:       jsonCfg.Session.SignKey,
			EncryptionKey: jsonCfg.Session.EncryptionKey,
			Codec:         jsonCfg.Session.Codec,
			Issuer:        jsonCfg.Session.Issuer,
			Duration:      time.Duration(jsonCfg.Session.Duration),
			SameSite:      jsonCfg.Session.SameSite,
			LoginPath:     jsonCfg.Session.LoginPath,
			ElevatedRoles: jsonCfg.Session.ElevatedRoles,
			DNISources:    jsonCfg.Session.DNISources,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				URL: jsonCfg.Storage.Redis.URL,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
			HSTSMaxAge:     time.Duration(jsonCfg.Server.HSTSMaxAge),
			MetricsEnabled: jsonCfg.Server.MetricsEnabled,
			TrustedProxies: jsonCfg.Server.TrustedProxies,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
