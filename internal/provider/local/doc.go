// Package local is a simulated provider client. It reconciles every
// resource type the image-pipeline stack declares, generating attributes
// of the same shape a real cloud provider would report, without any
// network calls. Generated identifiers are read back from prior state so
// they stay stable across updates.
package local
