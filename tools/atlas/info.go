package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/depp/atlaskit/lib/atlas"
	"github.com/depp/atlaskit/lib/getpath"
	"github.com/depp/atlaskit/lib/texture"
)

var (
	flagInfoGlyphs     bool
	flagExtractMaxSize int
)

func printInfo(reg *atlas.Registry, h atlas.Handle) error {
	w, ht, err := reg.Size(h)
	if err != nil {
		return err
	}
	ns, err := reg.SpriteCount(h)
	if err != nil {
		return err
	}
	nf, err := reg.FontCount(h)
	if err != nil {
		return err
	}
	fmt.Printf("size: %dx%d\nsprites: %d\nfonts: %d\n", w, ht, ns, nf)
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if ns > 0 {
		fmt.Fprintln(tw, "\nSPRITE\tID\tSIZE\tPOS\tUV")
		for i := 0; i < ns; i++ {
			s, err := reg.Sprite(h, atlas.SpriteHandle(i))
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%q\t%d\t%dx%d\t%d,%d\t%.4f,%.4f,%.4f,%.4f\n",
				s.Name, s.ID, s.Width, s.Height, s.X, s.Y, s.UV.U0, s.UV.V0, s.UV.U1, s.UV.V1)
		}
	}
	for i := 0; i < nf; i++ {
		f, err := reg.Font(h, atlas.FontHandle(i))
		if err != nil {
			return err
		}
		var count int
		for _, g := range f.Glyphs {
			if g.Set {
				count++
			}
		}
		fmt.Fprintf(tw, "\nFONT\t%q\t%gpt\t%d glyphs\n", f.Name, f.SizePts, count)
		if !flagInfoGlyphs {
			continue
		}
		fmt.Fprintln(tw, "CODE\tID\tSIZE\tBEARING\tADVANCE")
		for c, g := range f.Glyphs {
			if !g.Set {
				continue
			}
			m := f.Metrics[c]
			fmt.Fprintf(tw, "%#02x\t%d\t%dx%d\t%g,%g\t%g\n",
				c, g.ID, g.Width, g.Height, m.BearingX, m.BearingY, m.AdvanceX)
		}
	}
	return tw.Flush()
}

var cmdInfo = cobra.Command{
	Use:   "info <input.atlas>",
	Short: "Print the contents of an atlas file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		filein := getpath.GetPath(args[0])
		reg, _, err := newRegistry()
		if err != nil {
			return err
		}
		h, err := reg.LoadFile(filein)
		if err != nil {
			return err
		}
		return printInfo(reg, h)
	},
}

var cmdExtract = cobra.Command{
	Use:   "extract <input.atlas> <output.png>",
	Short: "Write the packed texture in an atlas file to a PNG image.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		filein := getpath.GetPath(args[0])
		fileout := getpath.GetPath(args[1])
		reg, mem, err := newRegistry()
		if err != nil {
			return err
		}
		h, err := reg.LoadFile(filein)
		if err != nil {
			return err
		}
		tex, _ := reg.Texture(h)
		im, err := mem.Image(tex)
		if err != nil {
			return err
		}
		if flagExtractMaxSize > 0 {
			im, err = texture.ShrinkToFit(im, flagExtractMaxSize)
			if err != nil {
				return err
			}
		}
		if err := texture.WritePNG(fileout, im); err != nil {
			return &fileError{fileout, err}
		}
		return nil
	},
}

func init() {
	cmdInfo.Flags().BoolVar(&flagInfoGlyphs, "glyphs", false, "list every glyph")
	cmdExtract.Flags().IntVar(&flagExtractMaxSize, "max-size", 0, "halve the image until it is at most `size` pixels on each side")
}
