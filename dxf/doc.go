package dxf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/zooyer/floorplan/core"
	"github.com/zooyer/floorplan/entities"
)

// ErrCorrupt 文件即使经过恢复也无法解析
var ErrCorrupt = errors.New("dxf: corrupt source")

type DimStyle struct {
	Name      string
	Precision int     // 对应组码 271 DIMDEC，显示的小数位数
	ExLimit   float64 // 对应组码 44 DIMEXE，标注线超出延伸线的长度
	Scale     float64 // 对应组码 40 DIMSCALE，全局比例，影响所有标注特征)
}

type Block struct {
	Name     string
	Base     core.Point // 组码 10/20/30 基点
	Flags    int        // 组码 70
	Entities []entities.Entity
}

// Anonymous 匿名块（名称以 * 开头，如 *D1、*U2）
func (b *Block) Anonymous() bool {
	return strings.HasPrefix(b.Name, "*")
}

type Document struct {
	Blocks    map[string]*Block
	Entities  []entities.Entity
	DimStyles map[string]*DimStyle
	// Variables HEADER 段变量，如 $INSUNITS、$ACADVER
	Variables map[string][]core.Tag
	// Recovered 恢复模式下丢弃的坏行数，0 表示一次解析成功
	Recovered int

	sections int
}

// BlockNames 返回按名称排序的块名，保证遍历顺序稳定
func (d *Document) BlockNames() []string {
	names := make([]string, 0, len(d.Blocks))
	for name := range d.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Block 按名称查找块（大小写不敏感）
func (d *Document) Block(name string) (*Block, bool) {
	b, ok := d.Blocks[BlockKey(name)]
	return b, ok
}

// BlockKey 块名的规范写法，块表和块参照都按它关联
func BlockKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Units 返回 $INSUNITS 声明的单位代码
func (d *Document) Units() (int, bool) {
	for _, tag := range d.Variables["$INSUNITS"] {
		if tag.Code == 70 {
			return tag.AsInt(), true
		}
	}
	return 0, false
}

func skip(scanner *core.Scanner) {
	for scanner.Next() {
		if scanner.LastTag.Code == 0 {
			return
		}
	}
}

func (d *Document) parseHeader(scanner *core.Scanner) {
	var name string
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			return
		}
		if tag.Code == 9 {
			name = strings.ToUpper(tag.AsString())
			d.Variables[name] = nil
			continue
		}
		if name != "" {
			d.Variables[name] = append(d.Variables[name], tag)
		}
	}
}

func (d *Document) parseBlockHeader(scanner *core.Scanner) *Block {
	block := &Block{Entities: []entities.Entity{}}
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.Code == 0 {
			break
		}
		switch tag.Code {
		case 2:
			block.Name = BlockKey(tag.AsString())
		case 70:
			block.Flags = tag.AsInt()
		case 10:
			block.Base.X = tag.AsFloat()
		case 20:
			block.Base.Y = tag.AsFloat()
		case 30:
			block.Base.Z = tag.AsFloat()
		}
	}
	return block
}

func (d *Document) addBlock(block *Block) {
	if block != nil && block.Name != "" {
		d.Blocks[block.Name] = block
	}
}

func (d *Document) parseBlocks(scanner *core.Scanner) {
	var currentBlock *Block
	scanner.Next()
	for !scanner.Done() {
		tag := scanner.LastTag
		switch {
		case tag.IsMarker("ENDSEC"):
			d.addBlock(currentBlock)
			return
		case tag.IsMarker("BLOCK"):
			d.addBlock(currentBlock) // 缺少 ENDBLK 时也保留上一个块
			currentBlock = d.parseBlockHeader(scanner)
			continue
		case tag.IsMarker("ENDBLK"):
			d.addBlock(currentBlock)
			currentBlock = nil
			skip(scanner)
			continue
		case tag.Code == 0:
			ent := entities.CreateEntity(tag.Value)
			_ = ent.Parse(scanner)
			if currentBlock != nil {
				currentBlock.Entities = append(currentBlock.Entities, ent)
			}
			continue
		}
		scanner.Next()
	}
}

func (d *Document) parseEntities(scanner *core.Scanner) {
	scanner.Next()
	for !scanner.Done() {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			return
		}
		if tag.Code == 0 {
			ent := entities.CreateEntity(tag.Value)
			_ = ent.Parse(scanner)
			d.Entities = append(d.Entities, ent)
			continue
		}
		scanner.Next()
	}
}

func (d *Document) parseTables(scanner *core.Scanner) {
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			break
		}
		if tag.IsMarker("TABLE") {
			scanner.Next()
			tableName := strings.ToUpper(scanner.LastTag.AsString())
			if tableName == "DIMSTYLE" {
				d.parseDimStyles(scanner)
			}
		}
	}
}

func (d *Document) parseDimStyles(scanner *core.Scanner) {
	for !scanner.Done() {
		tag := scanner.LastTag
		if tag.IsMarker("ENDTAB") {
			break
		}

		if tag.IsMarker("DIMSTYLE") {
			currentStyle := &DimStyle{
				Precision: 0,
				ExLimit:   0.0,
				Scale:     1.0, // 默认为 1.0，防止乘法归零
			}

			for scanner.Next() {
				t := scanner.LastTag
				if t.Code == 0 {
					break
				}
				switch t.Code {
				case 2: // 样式名称
					currentStyle.Name = strings.ToUpper(t.AsString())
				case 271: // 精度
					currentStyle.Precision = t.AsInt()
				case 44: // 标注线超出延伸线长度 (DIMEXE)
					currentStyle.ExLimit = t.AsFloat()
				case 40: // 全局标注比例 (DIMSCALE)
					currentStyle.Scale = t.AsFloat()
				}
			}

			if currentStyle.Name != "" {
				d.DimStyles[currentStyle.Name] = currentStyle
			}
			continue
		}

		scanner.Next()
	}
}

func Open(filename string) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Load(file)
}

// Load 先严格解析，遇到组码格式错误时再用恢复模式解析一次
func Load(reader io.Reader) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	doc, err := load(bytes.NewReader(data), false)
	if err != nil {
		var syntaxErr *core.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return nil, err
		}
		if doc, err = load(bytes.NewReader(data), true); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	if doc.sections == 0 {
		return nil, fmt.Errorf("%w: no sections found", ErrCorrupt)
	}

	return doc, nil
}

func load(reader io.Reader, recovery bool) (*Document, error) {
	var (
		scanner  = core.NewScanner(reader)
		document = &Document{
			Blocks:    make(map[string]*Block),
			Entities:  make([]entities.Entity, 0, 1024),
			DimStyles: make(map[string]*DimStyle),
			Variables: make(map[string][]core.Tag),
		}
	)
	scanner.Recover = recovery

	for scanner.Next() {
		tag := scanner.LastTag
		if tag.IsMarker("SECTION") {
			if !scanner.Next() {
				break
			}
			document.sections++
			sectionName := strings.ToUpper(scanner.LastTag.AsString())
			switch sectionName {
			case "HEADER":
				document.parseHeader(scanner)
			case "TABLES":
				document.parseTables(scanner)
			case "BLOCKS":
				document.parseBlocks(scanner)
			case "ENTITIES":
				document.parseEntities(scanner)
			}
		}
	}

	document.Recovered = scanner.Recovered()
	return document, scanner.Err()
}
