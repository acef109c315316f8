// Package domain concentra entidades e estruturas centrais do rate limiter.
package domain

import "time"

// Limites fixos da janela. Não são configuráveis em tempo de execução.
const (
	InitialCount int64         = 1
	Threshold    int64         = 2
	Window       time.Duration = 1000 * time.Millisecond
)

// ClientIdentifier identifica o chamador, normalmente a API key recebida no header.
type ClientIdentifier string

type Decision int

const (
	Allow Decision = iota + 1
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}
