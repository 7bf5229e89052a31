package posix

import (
	"strconv"

	"bashrs/internal/ast"
)

var redirOpText = map[ast.RedirOp]string{
	ast.RedirInput: "<", ast.RedirOutput: ">", ast.RedirAppend: ">>",
	ast.RedirReadWrite: "<>", ast.RedirNoClobber: ">|",
}

// printRedirs renders a command/compound's redirection list, each preceded
// by a space. &> (RedirOutErr) is never reached here — the purifier splits
// it into `>file 2>&1` before this runs; if it somehow survives, it's
// rendered as the POSIX-equivalent pair too.
func (p *printer) printRedirs(redirs []*ast.Redir) {
	for _, r := range redirs {
		p.w.Space()
		p.printRedir(r)
	}
}

func (p *printer) printRedir(r *ast.Redir) {
	switch r.Op {
	case ast.RedirHeredoc, ast.RedirHeredocTab:
		if r.Op == ast.RedirHeredocTab {
			p.w.WriteString("<<-")
		} else {
			p.w.WriteString("<<")
		}
		tag := r.Heredoc.Tag
		if r.Heredoc.QuotedTag {
			p.w.WriteString("'" + tag + "'")
		} else {
			p.w.WriteString(tag)
		}
		p.heredocs = append(p.heredocs, r.Heredoc)
		return
	case ast.RedirDupOutput:
		p.writeFD(r.FD, 1)
		p.w.WriteString(">&")
		p.writeDupTarget(r)
		return
	case ast.RedirDupInput:
		p.writeFD(r.FD, 0)
		p.w.WriteString("<&")
		p.writeDupTarget(r)
		return
	case ast.RedirOutErr:
		p.w.WriteString(">")
		p.printWord(r.Target)
		p.w.Space()
		p.w.WriteString("2>&1")
		return
	}
	if r.FD >= 0 {
		p.w.WriteString(strconv.Itoa(r.FD))
	}
	p.w.WriteString(redirOpText[r.Op])
	p.printWord(r.Target)
}

func (p *printer) writeFD(fd, defaultFD int) {
	if fd >= 0 && fd != defaultFD {
		p.w.WriteString(strconv.Itoa(fd))
	}
}

func (p *printer) writeDupTarget(r *ast.Redir) {
	if r.Closed {
		p.w.WriteString("-")
		return
	}
	if r.DupFD >= 0 {
		p.w.WriteString(strconv.Itoa(r.DupFD))
		return
	}
	p.printWord(r.Target)
}
