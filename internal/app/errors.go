package app

import "errors"

// ErrNoJournal reports activity-log reads on a service built without a journal.
var ErrNoJournal = errors.New("activity journal disabled")
