// Package services implements the driving ports: catalog lifecycle,
// relevance search, the LLM selection pipeline, and the conversation
// orchestrator. Services depend only on domain types and driven ports;
// adapters are injected at construction.
package services
