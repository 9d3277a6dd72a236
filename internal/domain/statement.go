package domain

// Statement is one unit of agent output under evaluation. The extractor
// produces at most one per response: the agent's final message is treated as
// a single speech act with a generic subject/predicate, and the modality is
// filled in later by the detector. Modality is empty until then.
type Statement struct {
	ID         string
	Subject    string
	Predicate  string
	RawText    string
	Modality   Modality
	Conditions []string
}
