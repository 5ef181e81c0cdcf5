package tasks

// Selection is an optional cursor into a list of n tasks. Callers pass the
// current list length to every operation; when set, 0 <= index < n holds.
type Selection struct {
	index int
	set   bool
}

// Index reports the selected index and whether there is one.
func (s Selection) Index() (int, bool) {
	return s.index, s.set
}

func (s *Selection) Clear() {
	s.index, s.set = 0, false
}

func (s *Selection) selectAt(i int) {
	s.index, s.set = i, true
}

// Next selects the first task when empty, else advances, stopping at the last.
func (s *Selection) Next(n int) {
	if n <= 0 {
		return
	}
	if !s.set {
		s.selectAt(0)
		return
	}
	s.selectAt(min(s.index+1, n-1))
}

// Previous selects the last task when empty, else steps back, stopping at 0.
func (s *Selection) Previous(n int) {
	if n <= 0 {
		return
	}
	if !s.set {
		s.selectAt(n - 1)
		return
	}
	s.selectAt(max(min(s.index, n-1)-1, 0))
}

func (s *Selection) First(n int) {
	if n <= 0 {
		return
	}
	s.selectAt(0)
}

func (s *Selection) Last(n int) {
	if n <= 0 {
		return
	}
	s.selectAt(n - 1)
}

// ReconcileAfterDelete fixes the cursor after the task at removed was
// deleted from a list that now holds n tasks.
func (s *Selection) ReconcileAfterDelete(removed, n int) {
	if !s.set {
		return
	}
	switch {
	case n <= 0:
		s.Clear()
	case s.index == removed:
		s.selectAt(min(removed, n-1))
	case s.index > removed:
		s.selectAt(s.index - 1)
	}
}
