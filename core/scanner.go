package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxResync 恢复模式下单次允许跳过的最大行数，超过则认为文件不可恢复
const maxResync = 64

type Scanner struct {
	reader  *bufio.Reader
	LastTag Tag
	line    int
	err     error

	// Recover 打开后遇到无法解析的组码行会尝试向后重新同步，而不是直接失败
	Recover   bool
	recovered int
	done      bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

func (s *Scanner) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		// 最后一行没有换行符
		err = nil
	}
	if err == nil {
		s.line++
	}
	return line, err
}

func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	if !s.next() {
		s.done = true
		return false
	}
	return true
}

func (s *Scanner) next() bool {
	// 1. 读取 Code 行
	var (
		code    int
		skipped int
	)
	for {
		codeLine, err := s.readLine()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return false
		}

		codeStr := strings.TrimSpace(codeLine)
		if codeStr == "" { // 跳过空行
			continue
		}

		code, err = strconv.Atoi(codeStr)
		if err == nil {
			break
		}
		if !s.Recover || skipped >= maxResync {
			s.err = &SyntaxError{Line: s.line, Text: codeStr, Err: err}
			return false
		}
		// 恢复模式：丢弃这一行，继续寻找下一个合法组码
		skipped++
		s.recovered++
	}

	// 2. 读取 Value 行
	valueLine, err := s.readLine()
	if err != nil {
		// Value 行如果 EOF 也是不完整的
		s.err = &SyntaxError{Line: s.line, Text: "", Err: io.ErrUnexpectedEOF}
		return false
	}

	// 去掉行尾的换行符，但保留 Value 开头的空格（DXF 规范要求）
	value := strings.TrimRight(valueLine, "\r\n")

	s.LastTag = Tag{Code: code, Value: value}
	return true
}

// Done 报告组码流是否已经读完（或出错终止）
func (s *Scanner) Done() bool {
	return s.done
}

func (s *Scanner) Err() error {
	return s.err
}

// Recovered 返回恢复模式下跳过的坏行数量
func (s *Scanner) Recovered() int {
	return s.recovered
}

// SyntaxError 组码流格式错误
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dxf: line %d: invalid group code %q: %v", e.Line, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
