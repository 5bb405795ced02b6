// Package model defines the data structures shared between the crawl
// orchestrator, the report writers, and the database layer.
package model
