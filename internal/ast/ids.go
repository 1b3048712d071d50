package ast

type (
	FuncID    uint32
	BlockID   uint32
	StmtID    uint32
	ExprID    uint32
	PatternID uint32
	TypeID    uint32
	PayloadID uint32
)

const (
	NoFuncID    FuncID    = 0
	NoBlockID   BlockID   = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoPatternID PatternID = 0
	NoTypeID    TypeID    = 0
)

func (id FuncID) IsValid() bool    { return id != NoFuncID }
func (id BlockID) IsValid() bool   { return id != NoBlockID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PatternID) IsValid() bool { return id != NoPatternID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
