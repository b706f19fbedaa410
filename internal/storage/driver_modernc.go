package storage

import (
	_ "modernc.org/sqlite"
)
