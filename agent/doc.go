// Package agent contains the built-in agent implementations shipped with
// AgentDeck: text preprocessing, data loading across common formats, generic
// HTTP access to configured services, model-backed analysis and report
// generation. Each agent exposes a Descriptor for registration and implements
// core.Agent; none of them holds state across invocations, so a single
// instance serves any number of concurrent workflow runs.
package agent
