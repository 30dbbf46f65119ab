package rawchunk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minemap/rawchunk/nbt"
)

// TileEntity carries the fields common to every extracted record: the world
// position, the chunk-local position derived from it, and the block id/data
// observed at that cell when the record was extracted.
type TileEntity struct {
	X int
	Y int
	Z int

	LocalX int
	LocalY int
	LocalZ int

	BlockID   int
	BlockData byte
}

type Sign struct {
	TileEntity
	Text1 string
	Text2 string
	Text3 string
	Text4 string
}

type FlowerPot struct {
	TileEntity
	Item int
	Data int
}

type Painting struct {
	TileEntity
	Motive string
	Facing byte
}

type Skull struct {
	TileEntity
	SkullType byte
	Rotation  byte
	Name      string
	UUID      string
	SkinURL   string
}

type Beacon struct {
	TileEntity
	Levels int
}

type Banner struct {
	TileEntity
	BaseColor int
}

type ItemFrame struct {
	TileEntity
	Item   string
	Facing byte
}

// extractEntities runs the two extraction passes: the free-entity list
// (paintings, item frames) and the tile-entity list (everything anchored to a
// block). Voxel decoding must already have happened.
func (c *Chunk) extractEntities(level nbt.Compound) error {
	if list, ok := level.List("Entities"); ok {
		for i, item := range list.Items {
			entity, ok := item.(nbt.Compound)
			if !ok {
				continue
			}
			id, ok := entity.String("id")
			if !ok {
				continue
			}
			switch {
			case strings.HasSuffix(id, "Painting"):
				if err := c.extractPainting(entity, i); err != nil {
					return err
				}
			case id == "ItemFrame":
				if err := c.extractItemFrame(entity, i); err != nil {
					return err
				}
			}
		}
	}

	if list, ok := level.List("TileEntities"); ok {
		for i, item := range list.Items {
			entity, ok := item.(nbt.Compound)
			if !ok {
				continue
			}
			// id plus the three coordinates are structurally optional at the
			// list level; entries missing any of them are skipped wholesale.
			id, ok := entity.String("id")
			x, okX := entity.Int("x")
			y, okY := entity.Int("y")
			z, okZ := entity.Int("z")
			if !ok || !okX || !okY || !okZ {
				continue
			}

			pos := [3]int{int(x), int(y), int(z)}
			var err error
			switch id {
			case "Sign":
				err = c.extractSign(entity, pos, i)
			case "FlowerPot":
				err = c.extractFlowerPot(entity, pos, i)
			case "Skull":
				err = c.extractSkull(entity, pos, i)
			case "Beacon":
				err = c.extractBeacon(entity, pos, i)
			case "Banner":
				err = c.extractBanner(entity, pos, i)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// anchor derives the chunk-local coordinates for a world position and records
// the block id/data currently at that cell. Positions that fall outside this
// chunk (a corrected painting anchor can) observe air.
func (c *Chunk) anchor(x, y, z int) TileEntity {
	localX := x - c.X*Width
	localY := y
	localZ := z - c.Z*Depth

	record := TileEntity{
		X: x, Y: y, Z: z,
		LocalX: localX, LocalY: localY, LocalZ: localZ,
	}
	record.BlockID = c.BlockIDClamped(localX, localY, localZ, AirID)
	if localY >= 0 && localY < Height {
		record.BlockData = c.BlockData(localX, localY, localZ)
	}
	return record
}

func entityPath(index int, field string) string {
	return fmt.Sprintf("Level.Entities[%d].%s", index, field)
}

func tileEntityPath(index int, field string) string {
	return fmt.Sprintf("Level.TileEntities[%d].%s", index, field)
}

// freeEntityAnchor reads the tile position and facing of a hanging entity.
// Older data names the facing byte "Direction"; newer data names it "Facing"
// and anchors the entity one cell off, which the facing-dependent correction
// undoes. The correction applies exactly once, here.
func freeEntityAnchor(entity nbt.Compound, kind string, index int) (x, y, z int, facing byte, err error) {
	tileX, ok := entity.Int("TileX")
	if !ok {
		return 0, 0, 0, 0, missingTag(kind, entityPath(index, "TileX"))
	}
	tileY, ok := entity.Int("TileY")
	if !ok {
		return 0, 0, 0, 0, missingTag(kind, entityPath(index, "TileY"))
	}
	tileZ, ok := entity.Int("TileZ")
	if !ok {
		return 0, 0, 0, 0, missingTag(kind, entityPath(index, "TileZ"))
	}

	dir, ok := entity.Byte("Direction")
	newer := false
	if !ok {
		dir, ok = entity.Byte("Facing")
		if !ok {
			return 0, 0, 0, 0, missingTag(kind, entityPath(index, "Direction"))
		}
		newer = true
	}

	x, y, z = int(tileX), int(tileY), int(tileZ)
	if newer {
		switch dir {
		case 0:
			z--
		case 1:
			x++
		case 2:
			z++
		case 3:
			x--
		}
	}
	return x, y, z, byte(dir), nil
}

func (c *Chunk) extractPainting(entity nbt.Compound, index int) error {
	motive, ok := entity.String("Motive")
	if !ok {
		return missingTag("Painting", entityPath(index, "Motive"))
	}
	x, y, z, facing, err := freeEntityAnchor(entity, "Painting", index)
	if err != nil {
		return err
	}
	c.Paintings = append(c.Paintings, Painting{
		TileEntity: c.anchor(x, y, z),
		Motive:     motive,
		Facing:     facing,
	})
	return nil
}

func (c *Chunk) extractItemFrame(entity nbt.Compound, index int) error {
	x, y, z, facing, err := freeEntityAnchor(entity, "ItemFrame", index)
	if err != nil {
		return err
	}

	item := ""
	if itemTag, ok := entity.Compound("Item"); ok {
		if numericID, ok := itemTag.Short("id"); ok {
			// Numeric item ids predate string identifiers; 358 is the only
			// one a frame renderer cares about.
			if numericID == 358 {
				item = "minecraft:filled_map"
			}
		} else if stringID, ok := itemTag.String("id"); ok {
			item = stringID
		} else {
			return missingTag("ItemFrame", entityPath(index, "Item.id"))
		}
	}

	c.ItemFrames = append(c.ItemFrames, ItemFrame{
		TileEntity: c.anchor(x, y, z),
		Item:       item,
		Facing:     facing,
	})
	return nil
}

// cleanSignText strips the one pair of literal double quotes JSON-era sign
// text is wrapped in, and maps the literal string "null" to empty.
func cleanSignText(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	if s == "null" {
		return ""
	}
	return s
}

func (c *Chunk) extractSign(entity nbt.Compound, pos [3]int, index int) error {
	var texts [4]string
	for i := range texts {
		field := fmt.Sprintf("Text%d", i+1)
		raw, ok := entity.String(field)
		if !ok {
			return missingTag("Sign", tileEntityPath(index, field))
		}
		texts[i] = cleanSignText(raw)
	}
	c.Signs = append(c.Signs, Sign{
		TileEntity: c.anchor(pos[0], pos[1], pos[2]),
		Text1:      texts[0],
		Text2:      texts[1],
		Text3:      texts[2],
		Text4:      texts[3],
	})
	return nil
}

func (c *Chunk) extractFlowerPot(entity nbt.Compound, pos [3]int, index int) error {
	data, ok := entity.Int("Data")
	if !ok {
		return missingTag("FlowerPot", tileEntityPath(index, "Data"))
	}

	var item int
	if numericItem, ok := entity.Int("Item"); ok {
		item = int(numericItem)
	} else if stringItem, ok := entity.String("Item"); ok {
		switch stringItem {
		case "minecraft:sapling":
			item = 6
		case "minecraft:red_flower":
			item = 38
		default:
			item = 0
		}
	} else {
		return missingTag("FlowerPot", tileEntityPath(index, "Item"))
	}

	c.FlowerPots = append(c.FlowerPots, FlowerPot{
		TileEntity: c.anchor(pos[0], pos[1], pos[2]),
		Item:       item,
		Data:       int(data),
	})
	return nil
}

func (c *Chunk) extractSkull(entity nbt.Compound, pos [3]int, index int) error {
	skullType, ok := entity.Byte("SkullType")
	if !ok {
		return missingTag("Skull", tileEntityPath(index, "SkullType"))
	}
	rotation, ok := entity.Byte("Rot")
	if !ok {
		return missingTag("Skull", tileEntityPath(index, "Rot"))
	}

	var name, uuid, skinURL string
	if owner, ok := entity.Compound("Owner"); ok {
		name, ok = owner.String("Name")
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Name"))
		}
		rawID, ok := owner.String("Id")
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Id"))
		}
		uuid = strings.ReplaceAll(rawID, "-", "")

		properties, ok := owner.Compound("Properties")
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Properties"))
		}
		textures, ok := properties.List("textures")
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Properties.textures"))
		}
		texture, ok := textures.CompoundAt(0)
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Properties.textures[0]"))
		}
		value, ok := texture.String("Value")
		if !ok {
			return missingTag("Skull", tileEntityPath(index, "Owner.Properties.textures[0].Value"))
		}
		url, err := decodeSkinURL(value)
		if err != nil {
			return &FormatError{
				Kind: "Skull",
				Path: tileEntityPath(index, "Owner.Properties.textures[0].Value"),
				Err:  err,
			}
		}
		skinURL = url
	} else if extra, ok := entity.String("ExtraType"); ok && extra != "" {
		// Pre-UUID skulls store only the player name.
		name = extra
		uuid = extra
		skinURL = "http://www.minecraft.net/skin/" + extra + ".png"
	}

	c.Skulls = append(c.Skulls, Skull{
		TileEntity: c.anchor(pos[0], pos[1], pos[2]),
		SkullType:  byte(skullType),
		Rotation:   byte(rotation),
		Name:       name,
		UUID:       uuid,
		SkinURL:    skinURL,
	})
	return nil
}

// decodeSkinURL unpacks the base64 texture property blob, a JSON document
// whose textures.SKIN.url field points at the player skin.
func decodeSkinURL(value string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	var blob struct {
		Textures struct {
			Skin struct {
				URL string `json:"url"`
			} `json:"SKIN"`
		} `json:"textures"`
	}
	if err := json.Unmarshal(decoded, &blob); err != nil {
		return "", err
	}
	return blob.Textures.Skin.URL, nil
}

func (c *Chunk) extractBeacon(entity nbt.Compound, pos [3]int, index int) error {
	levels, ok := entity.Int("Levels")
	if !ok {
		return missingTag("Beacon", tileEntityPath(index, "Levels"))
	}
	c.Beacons = append(c.Beacons, Beacon{
		TileEntity: c.anchor(pos[0], pos[1], pos[2]),
		Levels:     int(levels),
	})
	return nil
}

func (c *Chunk) extractBanner(entity nbt.Compound, pos [3]int, index int) error {
	base, ok := entity.Int("Base")
	if !ok {
		return missingTag("Banner", tileEntityPath(index, "Base"))
	}
	c.Banners = append(c.Banners, Banner{
		TileEntity: c.anchor(pos[0], pos[1], pos[2]),
		BaseColor:  int(base),
	})
	return nil
}
