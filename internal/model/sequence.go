package model

// Sequence is a named gapless counter. Rows are created lazily on first use
// and mutated in place; they are never deleted. All access goes through
// repository.SequenceRepository — the value must never be cached in process
// memory, since multiple processes share the same table.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int64  `gorm:"not null;default:0"`
}

func (Sequence) TableName() string { return "sequences" }
