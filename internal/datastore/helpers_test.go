package datastore

import "time"

var fixedTime = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
