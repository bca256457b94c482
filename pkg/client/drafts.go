package client

import "sync"

// Drafts keeps the unsent answer text per question so a revisited question
// shows what the candidate last typed.
type Drafts struct {
	mu    sync.RWMutex
	byKey map[string]string
}

func NewDrafts() *Drafts {
	return &Drafts{byKey: make(map[string]string)}
}

func draftKey(sessionID, questionID string) string {
	return sessionID + "/" + questionID
}

func (d *Drafts) Save(sessionID, questionID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byKey[draftKey(sessionID, questionID)] = text
}

func (d *Drafts) Load(sessionID, questionID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.byKey[draftKey(sessionID, questionID)]
	return text, ok
}

// Discard is called once the answer has been submitted
func (d *Drafts) Discard(sessionID, questionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byKey, draftKey(sessionID, questionID))
}
