package render

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
)

func writePlot(p *plot.Plot, size Size, output io.Writer) error {
	w, err := p.WriterTo(size.Width, size.Height, format)
	if err != nil {
		return err
	}
	_, err = w.WriteTo(output)
	return err
}

// writeClosePlot writes and always closes output, keeping both errors.
func writeClosePlot(p *plot.Plot, size Size, output io.WriteCloser) (err error) {
	defer func() {
		err = combineErrors(err, output.Close())
	}()
	return writePlot(p, size, output)
}

func combineErrors(errs ...error) (err error) {
	for _, e := range errs {
		switch {
		case e == nil:
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}
	return err
}
