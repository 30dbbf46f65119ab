package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/zeebo/blake3"

	"github.com/minemap/rawchunk/hashcache"
	"github.com/minemap/rawchunk/region"
)

func main() {
	app := &cli.App{
		Name:  "worldhash",
		Usage: "decodes a Minecraft world and reports per-chunk content hashes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cache",
				Usage: "path to a hash cache database; changed chunks are reported against it",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only print the summary line",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				_, _ = fmt.Fprintf(os.Stderr, "need a world to work with\n")
				return nil
			}

			world, err := region.OpenWorld(c.Args().Get(0))
			if err != nil {
				return err
			}
			fmt.Printf("discovered %d chunks in the world\n", world.Len())

			var cache *hashcache.Cache
			if path := c.String("cache"); path != "" {
				cache, err = hashcache.Open(path)
				if err != nil {
					return err
				}
				defer cache.Close()
			}

			digest := blake3.New()
			var added, changed, unchanged int
			for _, coord := range world.Coords() {
				chunk, _ := world.Chunk(coord)
				sum := chunk.CalculateHash(digest)

				status := ""
				if cache != nil {
					previous, ok, err := cache.Get(coord.X, coord.Z)
					if err != nil {
						return err
					}
					switch {
					case !ok:
						status = " (new)"
						added++
					case !bytes.Equal(previous, sum):
						status = " (changed)"
						changed++
					default:
						status = " (unchanged)"
						unchanged++
					}
					if err := cache.Put(coord.X, coord.Z, sum); err != nil {
						return err
					}
				}

				if !c.Bool("quiet") {
					fmt.Printf("chunk %d,%d sections=%d signs=%d entities=%d hash=%x%s\n",
						coord.X, coord.Z,
						chunk.PopulatedSections(),
						len(chunk.Signs),
						len(chunk.Paintings)+len(chunk.ItemFrames)+len(chunk.FlowerPots)+
							len(chunk.Skulls)+len(chunk.Beacons)+len(chunk.Banners),
						sum, status)
				}
			}

			if cache != nil {
				fmt.Printf("%d new, %d changed, %d unchanged\n", added, changed, unchanged)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
