// Package services defines the error taxonomy shared by the ingestion
// pipeline and its collaborators, plus context annotation helpers used to
// thread entry and stage identity into structured logs.
package services
