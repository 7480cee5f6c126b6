package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/gpuimage"
)

const (
	quadStride = 6 * 4
	quadBytes  = 4 * quadStride
)

// quadCorners are the clip-space corners in TexCoords order: top-left,
// top-right, bottom-left, bottom-right. Drawn as a triangle strip.
var quadCorners = [4][2]float32{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}

// quadVertices packs the four vertices of a draw: position, uv, uv2.
func quadVertices(coords, coords2 gpuimage.TexCoords) []byte {
	buf := make([]byte, 0, quadBytes)
	put := func(f float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for i, c := range quadCorners {
		put(c[0])
		put(c[1])
		put(coords[2*i])
		put(coords[2*i+1])
		put(coords2[2*i])
		put(coords2[2*i+1])
	}
	return buf
}

func clearColor(c gpuimage.RGBA) gputypes.Color {
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Clear fills t with c.
func (d *Device) Clear(h gpuimage.Texture, c gpuimage.RGBA) error {
	t, err := d.lookup(h)
	if err != nil {
		return err
	}
	return d.submit("clear "+t.label, func(enc *wgpu.CommandEncoder) error {
		pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "clear",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       t.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearColor(c),
			}},
		})
		if err != nil {
			return err
		}
		return pass.End()
	})
}

// Draw renders one full-target quad with the program's pipeline.
func (d *Device) Draw(call *gpuimage.DrawCall) error {
	p, ok := call.Program.(*program)
	if !ok {
		return errors.New("wgpu: draw with a foreign program")
	}
	if _, live := d.programs[p]; !live {
		return fmt.Errorf("wgpu: draw with destroyed program %s", p.label)
	}
	if len(call.Inputs) < p.inputs {
		return fmt.Errorf("wgpu: program %s needs %d inputs, got %d", p.label, p.inputs, len(call.Inputs))
	}
	dst, err := d.lookup(call.Target)
	if err != nil {
		return err
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: gpuimage.BindingParams, Buffer: p.params},
		{Binding: gpuimage.BindingSampler, Sampler: d.sampler},
	}
	for i := 0; i < p.inputs; i++ {
		src, err := d.lookup(call.Inputs[i])
		if err != nil {
			return fmt.Errorf("wgpu: input %d: %w", i, err)
		}
		if src == dst {
			return fmt.Errorf("wgpu: program %s reads and writes %s", p.label, dst.label)
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(gpuimage.BindingTexture + i), TextureView: src.view})
	}

	if len(call.Uniforms) > 0 {
		if err := d.queue.WriteBuffer(p.params, 0, call.Uniforms); err != nil {
			return fmt.Errorf("wgpu: write uniforms of %s: %w", p.label, err)
		}
	}
	if err := d.queue.WriteBuffer(d.quad, 0, quadVertices(call.Coords, call.Coords2)); err != nil {
		return fmt.Errorf("wgpu: write quad: %w", err)
	}
	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   d.cfg.label + "/" + p.label,
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: bind group of %s: %w", p.label, err)
	}
	defer group.Release()

	return d.submit(p.label, func(enc *wgpu.CommandEncoder) error {
		pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: p.label,
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    dst.view,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			}},
		})
		if err != nil {
			return err
		}
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(0, group, nil)
		pass.SetVertexBuffer(0, d.quad, 0)
		pass.Draw(4, 1, 0, 0)
		return pass.End()
	})
}

// submit records one command buffer with record and submits it.
func (d *Device) submit(label string, record func(enc *wgpu.CommandEncoder) error) error {
	enc, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: %s: create encoder: %w", label, err)
	}
	if err := record(enc); err != nil {
		enc.DiscardEncoding()
		return fmt.Errorf("wgpu: %s: %w", label, err)
	}
	cmd, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("wgpu: %s: finish: %w", label, err)
	}
	if _, err := d.queue.Submit(cmd); err != nil {
		return fmt.Errorf("wgpu: %s: submit: %w", label, err)
	}
	return nil
}
