package item

import "time"

// View is one item with its timer history collapsed into a single start/stop pair.
// Start is already shifted back by the durations of every earlier session, so
// the elapsed time is always Stop-Start, or now-Start while the timer runs.
type View struct {
	ID      int64      `json:"id"`
	Text    string     `json:"text"`
	Status  Status     `json:"status"`
	OwnerID int64      `json:"owner_id"`
	Start   *time.Time `json:"start,omitempty"`
	Stop    *time.Time `json:"stop,omitempty"`
	Tags    []Tag      `json:"tags"`
	Lists   []List     `json:"lists"`
}

func (v View) Running() bool {
	return v.Start != nil && v.Stop == nil
}

func (v View) Elapsed(now time.Time) time.Duration {
	if v.Start == nil {
		return 0
	}
	end := now
	if v.Stop != nil {
		end = *v.Stop
	}
	d := end.Sub(*v.Start)
	if d < 0 {
		return 0
	}
	return d
}
