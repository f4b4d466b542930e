package board

// MoveBufferCapacity is the minimum buffer size callers must supply to the generators
// below; no legal position requires more pseudo-legal candidates than this.
const MoveBufferCapacity = 128

var nonKingPieces = [...]Piece{Knight, Bishop, Rook, Queen}

// xrayBlockers finds every square holding exactly one piece drawn from blockerSet that
// lies between king and a slider of attackerSide along a shared rank/file/diagonal --
// i.e. a piece that, if it moved off that ray, would expose king to that slider. Used
// both for pin detection (blockerSet = king's own side) and discovered-check detection
// (blockerSet = the mover's side, king = the opponent's).
func xrayBlockers(pos *Position, king Square, attackerSide Color, blockerSet Bitboard) (Bitboard, [NumSquares]Bitboard) {
	var blockers Bitboard
	var rays [NumSquares]Bitboard

	occ := pos.AllOccupancy()
	diag := BishopAttackboard(king, EmptyBitboard) & (pos.Pieces(attackerSide, Bishop) | pos.Pieces(attackerSide, Queen))
	ortho := RookAttackboard(king, EmptyBitboard) & (pos.Pieces(attackerSide, Rook) | pos.Pieces(attackerSide, Queen))

	for _, sq := range (diag | ortho).ToSquares() {
		between := Between[king][sq]
		occBetween := between & occ
		if occBetween.PopCount() == 1 && occBetween&blockerSet != 0 {
			b := occBetween.LSB()
			blockers |= BitMask(b)
			rays[b] = between | BitMask(sq)
		}
	}
	return blockers, rays
}

// pins returns the pinned pieces of c and, per pinned square, the ray (inclusive of the
// pinner) that piece is still allowed to move along.
func pins(pos *Position, c Color) (Bitboard, [NumSquares]Bitboard) {
	return xrayBlockers(pos, pos.King(c), c.Opponent(), pos.Occupancy(c))
}

// isAttackedWithOcc is IsAttacked but against a caller-supplied occupancy, used to check
// king evasion squares against sliding checkers whose ray continues through the king's
// old square once it moves off it.
func (p *Position) isAttackedWithOcc(by Color, sq Square, occ Bitboard) bool {
	if bishops := p.pieces[by][Bishop] | p.pieces[by][Queen]; bishops != 0 && BishopAttackboard(sq, occ)&bishops != 0 {
		return true
	}
	if rooks := p.pieces[by][Rook] | p.pieces[by][Queen]; rooks != 0 && RookAttackboard(sq, occ)&rooks != 0 {
		return true
	}
	if knights := p.pieces[by][Knight]; knights != 0 && KnightAttackboard(sq)&knights != 0 {
		return true
	}
	if kings := p.pieces[by][King]; kings != 0 && KingAttackboard(sq)&kings != 0 {
		return true
	}
	return PawnAttackboard(by, p.pieces[by][Pawn])&BitMask(sq) != 0
}

// GenMoves generates every legal move in pos into buf, returning the filled prefix.
func GenMoves(pos *Position, buf []Move) []Move {
	c := pos.Turn()
	checkers := pos.Checkers(c)

	n := 0
	switch checkers.PopCount() {
	case 0:
		pinned, pinRay := pins(pos, c)
		n = genCastling(pos, c, buf, n)
		n = genPawnMoves(pos, c, FullBitboard, true, pinned, pinRay, buf, n)
		n = genPieceMoves(pos, c, FullBitboard, true, pinned, pinRay, buf, n)
	case 1:
		n = genEvasion(pos, c, checkers, buf, n)
	default:
		n = genKingMoves(pos, c, buf, n)
	}
	return buf[:n]
}

// GenEvasion generates legal check evasions: king moves off the attacked ray, captures
// of the (single) checker, and blocks between king and a single sliding checker. In
// double check only king moves are legal.
func GenEvasion(pos *Position, buf []Move) []Move {
	c := pos.Turn()
	checkers := pos.Checkers(c)
	if checkers == 0 {
		return buf[:0]
	}
	return buf[:genEvasion(pos, c, checkers, buf, 0)]
}

func genEvasion(pos *Position, c Color, checkers Bitboard, buf []Move, n int) int {
	if checkers.PopCount() > 1 {
		return genKingMoves(pos, c, buf, n)
	}

	n = genKingMoves(pos, c, buf, n)

	checkerSq := checkers.LSB()
	king := pos.King(c)

	targets := checkers // capture the checker
	if _, piece, _ := pos.PieceOn(checkerSq); piece.IsSlider() {
		targets |= Between[king][checkerSq] // or block the ray
	}

	pinned, pinRay := pins(pos, c)
	n = genPawnMoves(pos, c, targets, true, pinned, pinRay, buf, n)
	n = genPieceMovesExceptKing(pos, c, targets, pinned, pinRay, buf, n)
	return n
}

// genKingMoves generates legal (non-castling) king moves: destinations not occupied by
// a friendly piece and not attacked once the king has vacated its origin square.
func genKingMoves(pos *Position, c Color, buf []Move, n int) int {
	from := pos.King(c)
	opp := c.Opponent()
	occWithoutKing := pos.AllOccupancy() &^ BitMask(from)

	targets := KingAttackboard(from) &^ pos.Occupancy(c)
	for targets != 0 {
		var to Square
		to, targets = targets.PopLSB()
		if !pos.isAttackedWithOcc(opp, to, occWithoutKing) {
			buf[n] = NewMove(from, to, Normal)
			n++
		}
	}
	return n
}

// genCastling generates the (up to two) legal castling moves for c.
func genCastling(pos *Position, c Color, buf []Move, n int) int {
	if pos.IsChecked(c) {
		return n
	}
	opp := c.Opponent()
	occ := pos.AllOccupancy()

	type side struct {
		right        Castling
		kingTo       Square
		empty        Bitboard // squares that must be empty (excluding king's own square)
		kingCrossing []Square // squares the king passes through, including from/to
	}

	var sides []side
	if c == White {
		sides = []side{
			{WhiteKingSideCastle, G1, BitMask(F1) | BitMask(G1), []Square{E1, F1, G1}},
			{WhiteQueenSideCastle, C1, BitMask(B1) | BitMask(C1) | BitMask(D1), []Square{E1, D1, C1}},
		}
	} else {
		sides = []side{
			{BlackKingSideCastle, G8, BitMask(F8) | BitMask(G8), []Square{E8, F8, G8}},
			{BlackQueenSideCastle, C8, BitMask(B8) | BitMask(C8) | BitMask(D8), []Square{E8, D8, C8}},
		}
	}

	for _, s := range sides {
		if !pos.castling.IsAllowed(s.right) {
			continue
		}
		if s.empty&occ != 0 {
			continue
		}
		safe := true
		for _, sq := range s.kingCrossing {
			if pos.IsAttacked(opp, sq) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		from := pos.King(c)
		buf[n] = NewMove(from, s.kingTo, CastlingFlag)
		n++
	}
	return n
}

// genPawnMoves generates pawn pushes, double pushes, captures, en-passant and
// promotions whose destination lies in targets (use FullBitboard outside evasion).
// subPromotions controls whether under-promotions (N/B/R) are emitted alongside queen.
func genPawnMoves(pos *Position, c Color, targets Bitboard, subPromotions bool, pinned Bitboard, pinRay [NumSquares]Bitboard, buf []Move, n int) int {
	opp := c.Opponent()
	occ := pos.AllOccupancy()
	empty := ^occ
	pawns := pos.Pieces(c, Pawn)
	promoRank := PawnPromotionRank(c)

	emitPawn := func(from, to Square, flag MoveFlag) {
		if pinned&BitMask(from) != 0 && pinRay[from]&BitMask(to) == 0 {
			return
		}
		if BitMask(to)&promoRank != 0 && flag == Normal {
			buf[n] = NewPromotion(from, to, Queen)
			n++
			if subPromotions {
				buf[n] = NewPromotion(from, to, Rook)
				n++
				buf[n] = NewPromotion(from, to, Bishop)
				n++
				buf[n] = NewPromotion(from, to, Knight)
				n++
			}
			return
		}
		buf[n] = NewMove(from, to, flag)
		n++
	}

	// single and double pushes
	single := PawnPushboard(c, pawns, empty)
	for bb := single & targets; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		from := pawnPushOrigin(c, to, 1)
		emitPawn(from, to, Normal)
	}

	startPawns := pawns & PawnStartRank(c)
	singleFromStart := PawnPushboard(c, startPawns, empty)
	double := PawnPushboard(c, singleFromStart, empty)
	for bb := double & targets; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		from := pawnPushOrigin(c, to, 2)
		emitPawn(from, to, Normal)
	}

	// captures
	for bb := pawns; bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		caps := PawnAttackFrom(c, from) & pos.Occupancy(opp) & targets
		for caps != 0 {
			var to Square
			to, caps = caps.PopLSB()
			emitPawn(from, to, Normal)
		}
	}

	// en passant
	if ep, ok := pos.EnPassant(); ok {
		capturedSq := enPassantCaptureSquare(ep, c)
		// EP can resolve a check either by landing on a target square, or by
		// capturing a checking pawn that itself sits on a target square.
		if targets&BitMask(ep) != 0 || targets&BitMask(capturedSq) != 0 {
			attackers := PawnAttackFrom(opp, ep) & pawns
			for attackers != 0 {
				var from Square
				from, attackers = attackers.PopLSB()
				if pinned&BitMask(from) != 0 && pinRay[from]&BitMask(ep) == 0 {
					continue
				}
				if isEnPassantSafe(pos, c, from, ep, capturedSq) {
					buf[n] = NewMove(from, ep, EnPassantFlag)
					n++
				}
			}
		}
	}
	return n
}

// isEnPassantSafe rules out the rare case where capturing en passant removes both the
// capturing and captured pawn from the same rank as the king, exposing it to a rook or
// queen along that rank (the "en passant pin").
func isEnPassantSafe(pos *Position, c Color, from, to, captured Square) bool {
	king := pos.King(c)
	opp := c.Opponent()
	occ := pos.AllOccupancy() &^ BitMask(from) &^ BitMask(captured) | BitMask(to)
	rooks := pos.Pieces(opp, Rook) | pos.Pieces(opp, Queen)
	return rooks == 0 || RookAttackboard(king, occ)&rooks == 0
}

// pawnPushOrigin returns the square a pawn came from to reach 'to' via a push of the
// given number of steps (1 or 2).
func pawnPushOrigin(c Color, to Square, steps int) Square {
	if c == White {
		return to - Square(8*steps)
	}
	return to + Square(8*steps)
}

// genPieceMoves generates knight/bishop/rook/queen moves (and king moves if
// includeKing) whose destination lies in targets.
func genPieceMoves(pos *Position, c Color, targets Bitboard, includeKing bool, pinned Bitboard, pinRay [NumSquares]Bitboard, buf []Move, n int) int {
	n = genPieceMovesExceptKing(pos, c, targets, pinned, pinRay, buf, n)
	if includeKing {
		n = genKingMoves(pos, c, buf, n)
	}
	return n
}

func genPieceMovesExceptKing(pos *Position, c Color, targets Bitboard, pinned Bitboard, pinRay [NumSquares]Bitboard, buf []Move, n int) int {
	occ := pos.AllOccupancy()
	own := pos.Occupancy(c)

	for _, piece := range nonKingPieces {
		bb := pos.Pieces(c, piece)
		for bb != 0 {
			var from Square
			from, bb = bb.PopLSB()

			dest := Attackboard(piece, from, occ) &^ own & targets
			if pinned&BitMask(from) != 0 {
				dest &= pinRay[from]
			}
			for dest != 0 {
				var to Square
				to, dest = dest.PopLSB()
				buf[n] = NewMove(from, to, Normal)
				n++
			}
		}
	}
	return n
}

// GenQuietChecks generates non-capturing moves by knights, bishops, rooks and queens
// that give check -- direct (the destination attacks the enemy king) or discovered (the
// move uncovers a friendly slider's attack on the enemy king). Used by quiescence search
// when resolving checks one ply deep. Does not generate pawn or king checks.
func GenQuietChecks(pos *Position, buf []Move) []Move {
	c := pos.Turn()
	opp := c.Opponent()
	enemyKing := pos.King(opp)
	occ := pos.AllOccupancy()
	empty := ^occ

	pinned, pinRay := pins(pos, c)
	discoverers, discRays := xrayBlockers(pos, enemyKing, c, pos.Occupancy(c))

	n := 0
	for _, piece := range nonKingPieces {
		bb := pos.Pieces(c, piece)
		for bb != 0 {
			var from Square
			from, bb = bb.PopLSB()

			quietDest := Attackboard(piece, from, occ) & empty
			if pinned&BitMask(from) != 0 {
				quietDest &= pinRay[from]
			}
			occWithoutFrom := occ &^ BitMask(from)
			isDiscoverer := discoverers&BitMask(from) != 0

			for quietDest != 0 {
				var to Square
				to, quietDest = quietDest.PopLSB()

				direct := Attackboard(piece, to, occWithoutFrom|BitMask(to))&BitMask(enemyKing) != 0
				discovered := isDiscoverer && discRays[from]&BitMask(to) == 0
				if direct || discovered {
					buf[n] = NewMove(from, to, Normal)
					n++
				}
			}
		}
	}
	return buf[:n]
}

// HasMoves reports whether the side to move has at least one legal move. It generates
// the full legal move list and checks that it is non-empty.
func HasMoves(pos *Position) bool {
	var buf [MoveBufferCapacity]Move
	return len(GenMoves(pos, buf[:])) > 0
}

// Perft counts leaf nodes at the given depth, a standard correctness oracle for move
// generation.
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var buf [MoveBufferCapacity]Move
	moves := GenMoves(pos, buf[:])

	if depth == 1 {
		return uint64(len(moves))
	}

	var count uint64
	for _, m := range moves {
		pos.MakeMove(m)
		count += Perft(pos, depth-1)
		pos.UnmakeMove()
	}
	return count
}
