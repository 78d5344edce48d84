// internal/renderer/renderer.go
//
// Core rendering pipeline: window, HDR framebuffer, draw passes
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type Config struct {
	Width  int
	Height int
	Title  string
	VSync  bool
	MSAA   int
	HDR    bool
}

func DefaultConfig() Config {
	return Config{
		Width:  1000,
		Height: 800,
		Title:  "NEXUS Robot Control",
		VSync:  true,
		MSAA:   4,
		HDR:    true,
	}
}

// Renderer owns the window, GL context and draw pipeline. It consumes
// pose snapshots each frame and never mutates them. Context failures
// are fatal to the session.
type Renderer struct {
	window *glfw.Window
	config Config

	litShader  *Shader
	glowShader *Shader
	postShader *Shader

	camera      *Camera
	lightingRig *LightingRig

	hdrFBO      uint32
	hdrColorTex uint32
	hdrDepthTex uint32

	projectionMatrix mgl32.Mat4
	viewMatrix       mgl32.Mat4

	cube   *meshBuffer
	sphere *meshBuffer
	grid   *lineBuffer

	quadVAO uint32

	drawCalls int

	fbWidth  int
	fbHeight int
}

func New(cfg Config) (*Renderer, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	if cfg.MSAA > 0 {
		glfw.WindowHint(glfw.Samples, cfg.MSAA)
	}

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	r := &Renderer{
		window: window,
		config: cfg,
	}

	fbW, fbH := window.GetFramebufferSize()
	r.fbWidth = fbW
	r.fbHeight = fbH

	if err := r.initShaders(); err != nil {
		return nil, fmt.Errorf("init shaders: %w", err)
	}

	r.camera = NewStageCamera(float32(cfg.Width) / float32(cfg.Height))
	r.lightingRig = NewNeonLighting()
	r.cube = newCubeMesh()
	r.sphere = newSphereMesh(24, 24)
	r.grid = newGroundGrid()
	gl.GenVertexArrays(1, &r.quadVAO)

	if cfg.HDR {
		r.initHDRFramebuffer()
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if cfg.MSAA > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	return r, nil
}

func (r *Renderer) initShaders() error {
	var err error

	// Prefer on-disk shaders so the hot-reload watcher can pick up
	// edits; fall back to the embedded sources.
	r.litShader, err = NewShaderFromFiles("assets/shaders/robot.vert", "assets/shaders/robot.frag")
	if err != nil {
		r.litShader, err = NewShaderFromSource(litVertSrc, litFragSrc)
		if err != nil {
			return fmt.Errorf("lit shader: %w", err)
		}
	}

	r.glowShader, err = NewShaderFromSource(glowVertSrc, glowFragSrc)
	if err != nil {
		return fmt.Errorf("glow shader: %w", err)
	}

	r.postShader, err = NewShaderFromSource(postVertSrc, postFragSrc)
	if err != nil {
		return fmt.Errorf("post shader: %w", err)
	}

	return nil
}

// LitShader exposes the lit pass shader, e.g. for the hot-reload
// watcher.
func (r *Renderer) LitShader() *Shader {
	return r.litShader
}

func (r *Renderer) initHDRFramebuffer() {
	gl.GenFramebuffers(1, &r.hdrFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.hdrFBO)

	gl.GenTextures(1, &r.hdrColorTex)
	gl.BindTexture(gl.TEXTURE_2D, r.hdrColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
		int32(r.fbWidth), int32(r.fbHeight),
		0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.hdrColorTex, 0)

	gl.GenTextures(1, &r.hdrDepthTex)
	gl.BindTexture(gl.TEXTURE_2D, r.hdrDepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24,
		int32(r.fbWidth), int32(r.fbHeight),
		0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, r.hdrDepthTex, 0)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		panic("HDR framebuffer incomplete")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (r *Renderer) BeginFrame() {
	r.drawCalls = 0

	if r.config.HDR {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.hdrFBO)
	}

	gl.ClearColor(0.05, 0.05, 0.1, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.projectionMatrix = r.camera.ProjectionMatrix()
	r.viewMatrix = r.camera.ViewMatrix()

	r.litShader.Use()
	r.litShader.SetMat4("uProjection", r.projectionMatrix)
	r.litShader.SetMat4("uView", r.viewMatrix)
	r.litShader.SetVec3("uCameraPos", r.camera.Position)
	r.lightingRig.SetLightUniforms(r.litShader)
}

func (r *Renderer) EndFrame() {
	if r.config.HDR {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.Disable(gl.DEPTH_TEST)

		r.postShader.Use()
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.hdrColorTex)
		r.postShader.SetInt("uHDRBuffer", 0)
		r.postShader.SetFloat("uExposure", 1.2)

		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
		gl.BindVertexArray(0)

		gl.Enable(gl.DEPTH_TEST)
	}
}

func (r *Renderer) Present() {
	r.window.SwapBuffers()
	glfw.PollEvents()
}

func (r *Renderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// Window exposes the glfw window for input binding.
func (r *Renderer) Window() *glfw.Window {
	return r.window
}

// DrawCube draws a lit unit cube under the given model transform.
func (r *Renderer) DrawCube(model mgl32.Mat4, color mgl32.Vec3) {
	r.litShader.Use()
	r.litShader.SetMat4("uModel", model)
	r.litShader.SetVec3("uColor", color)
	r.cube.draw()
	r.drawCalls++
}

// DrawSphere draws a lit unit sphere under the given model transform.
func (r *Renderer) DrawSphere(model mgl32.Mat4, color mgl32.Vec3) {
	r.litShader.Use()
	r.litShader.SetMat4("uModel", model)
	r.litShader.SetVec3("uColor", color)
	r.sphere.draw()
	r.drawCalls++
}

// DrawGlowSphere draws an unlit translucent sphere (aura, energy
// nodes). Alpha comes from the color's fourth component.
func (r *Renderer) DrawGlowSphere(model mgl32.Mat4, color mgl32.Vec4) {
	r.glowShader.Use()
	r.glowShader.SetMat4("uProjection", r.projectionMatrix)
	r.glowShader.SetMat4("uView", r.viewMatrix)
	r.glowShader.SetMat4("uModel", model)
	r.glowShader.SetVec4("uColor", color)
	gl.DepthMask(false)
	r.sphere.draw()
	gl.DepthMask(true)
	r.drawCalls++
}

// DrawGrid draws the glowing ground grid.
func (r *Renderer) DrawGrid() {
	r.glowShader.Use()
	r.glowShader.SetMat4("uProjection", r.projectionMatrix)
	r.glowShader.SetMat4("uView", r.viewMatrix)
	r.glowShader.SetMat4("uModel", mgl32.Ident4())
	r.glowShader.SetVec4("uColor", mgl32.Vec4{0.0, 0.5, 0.8, 1.0})
	r.grid.draw(gl.LINES)
	r.drawCalls++
}

// DrawLines draws an unlit polyline buffer under a model transform.
func (r *Renderer) DrawLines(buf *lineBuffer, mode uint32, model mgl32.Mat4, color mgl32.Vec4) {
	r.glowShader.Use()
	r.glowShader.SetMat4("uProjection", r.projectionMatrix)
	r.glowShader.SetMat4("uView", r.viewMatrix)
	r.glowShader.SetMat4("uModel", model)
	r.glowShader.SetVec4("uColor", color)
	buf.draw(mode)
	r.drawCalls++
}

// DrawCallCount reports draw calls issued since BeginFrame.
func (r *Renderer) DrawCallCount() int {
	return r.drawCalls
}

func (r *Renderer) Camera() *Camera {
	return r.camera
}

func (r *Renderer) Shutdown() {
	if r.config.HDR {
		gl.DeleteFramebuffers(1, &r.hdrFBO)
		gl.DeleteTextures(1, &r.hdrColorTex)
		gl.DeleteTextures(1, &r.hdrDepthTex)
	}

	r.cube.delete()
	r.sphere.delete()
	r.grid.delete()
	gl.DeleteVertexArrays(1, &r.quadVAO)

	r.litShader.Delete()
	r.glowShader.Delete()
	r.postShader.Delete()

	r.window.Destroy()
}

var litVertSrc = `#version 410 core

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

out vec3 vPosition;
out vec3 vNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

void main() {
    vec4 worldPos = uModel * vec4(aPosition, 1.0);
    vPosition = worldPos.xyz;

    mat3 normalMatrix = transpose(inverse(mat3(uModel)));
    vNormal = normalize(normalMatrix * aNormal);

    gl_Position = uProjection * uView * worldPos;
}
` + "\x00"

var litFragSrc = `#version 410 core

in vec3 vPosition;
in vec3 vNormal;

out vec4 FragColor;

uniform vec3 uColor;
uniform vec3 uCameraPos;

struct Light {
    vec3 position;
    vec3 color;
    float intensity;
};

#define MAX_LIGHTS 4
uniform Light uLights[MAX_LIGHTS];
uniform int uLightCount;
uniform vec3 uAmbientColor;

void main() {
    vec3 N = normalize(vNormal);
    vec3 V = normalize(uCameraPos - vPosition);

    vec3 Lo = vec3(0.0);

    for (int i = 0; i < uLightCount && i < MAX_LIGHTS; i++) {
        vec3 L = normalize(uLights[i].position - vPosition);
        float distance = length(uLights[i].position - vPosition);
        float attenuation = 1.0 / (distance * distance);

        float NdotL = max(dot(N, L), 0.0);
        vec3 diffuse = uColor * NdotL;

        vec3 H = normalize(V + L);
        float spec = pow(max(dot(N, H), 0.0), 32.0);
        vec3 specular = vec3(0.3) * spec;

        vec3 radiance = uLights[i].color * uLights[i].intensity * attenuation;
        Lo += (diffuse + specular) * radiance;
    }

    vec3 ambient = uAmbientColor * uColor;
    vec3 color = ambient + Lo;

    FragColor = vec4(color, 1.0);
}
` + "\x00"

var glowVertSrc = `#version 410 core

layout(location = 0) in vec3 aPosition;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

void main() {
    gl_Position = uProjection * uView * uModel * vec4(aPosition, 1.0);
}
` + "\x00"

var glowFragSrc = `#version 410 core

out vec4 FragColor;

uniform vec4 uColor;

void main() {
    FragColor = uColor;
}
` + "\x00"

var postVertSrc = `#version 410 core

out vec2 vTexCoord;

void main() {
    vec2 positions[3] = vec2[](
        vec2(-1.0, -1.0),
        vec2(3.0, -1.0),
        vec2(-1.0, 3.0)
    );

    gl_Position = vec4(positions[gl_VertexID], 0.0, 1.0);
    vTexCoord = (positions[gl_VertexID] + 1.0) * 0.5;
}
` + "\x00"

var postFragSrc = `#version 410 core

in vec2 vTexCoord;
out vec4 FragColor;

uniform sampler2D uHDRBuffer;
uniform float uExposure;

vec3 ACESFilm(vec3 x) {
    float a = 2.51;
    float b = 0.03;
    float c = 2.43;
    float d = 0.59;
    float e = 0.14;
    return clamp((x*(a*x+b))/(x*(c*x+d)+e), 0.0, 1.0);
}

void main() {
    vec3 hdrColor = texture(uHDRBuffer, vTexCoord).rgb;
    vec3 mapped = vec3(1.0) - exp(-hdrColor * uExposure);
    mapped = ACESFilm(mapped);
    mapped = pow(mapped, vec3(1.0/2.2));
    FragColor = vec4(mapped, 1.0);
}
` + "\x00"
