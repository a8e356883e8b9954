// Package provider defines the client interface the apply engine speaks
// to. The engine never interprets provider semantics; it hands over fully
// substituted arguments and records whatever attributes come back.
package provider
