// Command sdl-display runs a ROM in an SDL2 window with audio, driving
// the machine one frame (one vertical blank) at a time.
package main

import (
	"fmt"
	"log"
	"os"
	"unsafe"

	"github.com/samukallio/nes/pkg/cartridge"
	"github.com/samukallio/nes/pkg/controller"
	"github.com/samukallio/nes/pkg/machine"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenWidth  = 256
	screenHeight = 240
	windowScale  = 3
	sampleRate   = 44100.0
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sdl-display <rom-file>")
		os.Exit(1)
	}
	romPath := os.Args[1]

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		log.Fatalf("failed to initialize SDL: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"NES Emulator - "+romPath,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		screenWidth*windowScale, screenHeight*windowScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		log.Fatalf("failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, screenWidth, screenHeight)
	if err != nil {
		log.Fatalf("failed to create texture: %v", err)
	}
	defer texture.Destroy()

	audioSpec := &sdl.AudioSpec{Freq: sampleRate, Format: sdl.AUDIO_U8, Channels: 1, Samples: 2048}
	audioDevice, err := sdl.OpenAudioDevice("", false, audioSpec, nil, 0)
	if err != nil {
		log.Printf("failed to open audio device: %v (continuing without sound)", err)
	} else {
		defer sdl.CloseAudioDevice(audioDevice)
		sdl.PauseAudioDevice(audioDevice, false)
	}

	fmt.Printf("Loading %s\n", romPath)
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}
	fmt.Printf("Mapper: %d  PRG: %dKB  CHR: %dKB\n", cart.GetMapperID(), int(cart.GetPRGBanks())*16, int(cart.GetCHRBanks())*8)

	m := machine.New()
	m.Load(cart, sampleRate)

	ctrl := m.Bus.Controller1

	audioBuf := make([]uint8, 4096)

	running := true
	paused := false
	frameCount := 0

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.KeyboardEvent:
				pressed := e.Type == sdl.KEYDOWN
				if pressed {
					switch e.Keysym.Sym {
					case sdl.K_ESCAPE:
						running = false
						continue
					case sdl.K_p:
						paused = !paused
						continue
					case sdl.K_r:
						m.Reset()
						frameCount = 0
						continue
					}
				}
				switch e.Keysym.Sym {
				case sdl.K_x:
					ctrl.SetButton(controller.ButtonA, pressed)
				case sdl.K_z:
					ctrl.SetButton(controller.ButtonB, pressed)
				case sdl.K_RSHIFT:
					ctrl.SetButton(controller.ButtonSelect, pressed)
				case sdl.K_RETURN:
					ctrl.SetButton(controller.ButtonStart, pressed)
				case sdl.K_UP:
					ctrl.SetButton(controller.ButtonUp, pressed)
				case sdl.K_DOWN:
					ctrl.SetButton(controller.ButtonDown, pressed)
				case sdl.K_LEFT:
					ctrl.SetButton(controller.ButtonLeft, pressed)
				case sdl.K_RIGHT:
					ctrl.SetButton(controller.ButtonRight, pressed)
				}
			}
		}

		if !paused {
			m.RunUntilVerticalBlank()
			frameCount++

			if audioDevice != 0 {
				for {
					n := m.APU.ReadSamples(audioBuf)
					if n == 0 {
						break
					}
					sdl.QueueAudio(audioDevice, audioBuf[:n])
				}
			}
		}

		frameBuffer := m.PPU.GetFrameBuffer()
		texture.Update(nil, unsafe.Pointer(&frameBuffer[0]), screenWidth*4)

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if !paused {
			sdl.Delay(16)
		} else {
			sdl.Delay(100)
		}
	}

	fmt.Printf("Total frames rendered: %d\n", frameCount)
}
