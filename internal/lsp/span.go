package lsp

import (
	"fortio.org/safecast"

	"mf2/internal/source"
)

func positionFor(file *source.File, off uint32) position {
	pos := file.PositionOf(off)
	return position{Line: int(pos.Line), Character: int(pos.Character)}
}

func offsetFor(file *source.File, pos position) uint32 {
	line, err := safecast.Conv[uint32](max(pos.Line, 0))
	if err != nil {
		return file.Len()
	}
	char, err := safecast.Conv[uint32](max(pos.Character, 0))
	if err != nil {
		return file.Len()
	}
	return file.OffsetOf(source.Position{Line: line, Character: char})
}

func rangeForSpan(file *source.File, sp source.Span) lspRange {
	return lspRange{
		Start: positionFor(file, sp.Start),
		End:   positionFor(file, sp.End),
	}
}

func spanForRange(file *source.File, r lspRange) source.Span {
	start := offsetFor(file, r.Start)
	end := offsetFor(file, r.End)
	if end < start {
		end = start
	}
	return source.Span{Start: start, End: end}
}
