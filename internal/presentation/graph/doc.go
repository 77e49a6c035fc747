// Package graph exports state machine models as Mermaid and PlantUML diagrams.
package graph
