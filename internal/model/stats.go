package model

// TypeStats : агрегаты по одному типу ассетов
type TypeStats struct {
	Type      AssetType `db:"type" json:"type"`
	Count     int64     `db:"count" json:"count"`
	SizeBytes int64     `db:"size_bytes" json:"size_bytes"`
}

// Stats : сводная статистика для админ-панели
type Stats struct {
	Users           int64       `db:"users" json:"users"`
	Assets          int64       `db:"assets" json:"assets"`
	TotalSizeBytes  int64       `db:"total_size_bytes" json:"total_size_bytes"`
	TotalSize       string      `db:"-" json:"total_size"`
	Views           int64       `db:"views" json:"views"`
	Downloads       int64       `db:"downloads" json:"downloads"`
	SharedAssets    int64       `db:"shared_assets" json:"shared_assets"`
	ProtectedAssets int64       `db:"protected_assets" json:"protected_assets"`
	ByType          []TypeStats `db:"-" json:"by_type"`
}
