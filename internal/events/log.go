package events

// Round holds the events recorded during one round
type Round struct {
	Number int     `json:"number"`
	Events []Event `json:"events"`
}

// Log is the append-only per-round event log of one encounter
type Log struct {
	Rounds []Round `json:"rounds"`
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{Rounds: []Round{}}
}

// BeginRound opens a new round. Later events are recorded under it.
func (l *Log) BeginRound(number int) {
	if current := l.current(); current != nil && current.Number == number {
		return
	}
	l.Rounds = append(l.Rounds, Round{Number: number, Events: []Event{}})
}

// Record implements Recorder. The event is stamped with the current round.
func (l *Log) Record(event Event) Event {
	current := l.current()
	if current == nil {
		l.Rounds = append(l.Rounds, Round{Number: 0, Events: []Event{}})
		current = l.current()
	}
	event.Round = current.Number
	current.Events = append(current.Events, event)
	return event
}

// Round returns the events of the given round
func (l *Log) Round(number int) []Event {
	for i := range l.Rounds {
		if l.Rounds[i].Number == number {
			return l.Rounds[i].Events
		}
	}
	return nil
}

// All returns every event in emission order
func (l *Log) All() []Event {
	var all []Event
	for _, round := range l.Rounds {
		all = append(all, round.Events...)
	}
	return all
}

// Filter returns the events matching type and subtype. An empty subtype matches any.
func (l *Log) Filter(eventType Type, subtype string) []Event {
	var matched []Event
	for _, event := range l.All() {
		if event.Type != eventType {
			continue
		}
		if subtype != "" && event.Subtype != subtype {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

func (l *Log) current() *Round {
	if len(l.Rounds) == 0 {
		return nil
	}
	return &l.Rounds[len(l.Rounds)-1]
}
